package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// MenuChoice is what the player picked in the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceScores
	ChoiceQuit
)

type menuItem int

const (
	itemPlay menuItem = iota
	itemScores
	itemDifficulty
	itemQuit
)

var difficulties = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

var difficultyDescriptions = map[config.DifficultyPreset]string{
	config.DifficultyEasy:   "Slower start, few obstacles",
	config.DifficultyNormal: "The classic game",
	config.DifficultyHard:   "Faster start, obstacles keep coming",
	config.DifficultyFixed:  "No progression, speed changes only through food",
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items      []menuItem
	cursor     int
	difficulty int // Index into difficulties
	highScore  int
	width      int
	height     int
	theme      Theme
	keyMapper  *KeyMapper
	choice     MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *storage.Store, preset config.DifficultyPreset, theme Theme, width, height int) MenuModel {
	m := MenuModel{
		items:     []menuItem{itemPlay, itemScores, itemDifficulty, itemQuit},
		width:     width,
		height:    height,
		theme:     theme,
		keyMapper: NewKeyMapper(),
	}
	for i, d := range difficulties {
		if d == preset {
			m.difficulty = i
		}
	}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		if hs, err := store.HighScore(ctx); err == nil {
			m.highScore = hs
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.choice = ChoiceQuit

	case MenuActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, len(m.items)-1)

	case MenuActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, len(m.items)-1)

	case MenuActionLeft:
		if m.items[m.cursor] == itemDifficulty {
			m.difficulty = (m.difficulty + len(difficulties) - 1) % len(difficulties)
		}

	case MenuActionRight:
		if m.items[m.cursor] == itemDifficulty {
			m.difficulty = (m.difficulty + 1) % len(difficulties)
		}

	case MenuActionSelect:
		switch m.items[m.cursor] {
		case itemPlay:
			m.choice = ChoicePlay
		case itemScores:
			m.choice = ChoiceScores
		case itemDifficulty:
			m.difficulty = (m.difficulty + 1) % len(difficulties)
		case itemQuit:
			m.choice = ChoiceQuit
		}
	}

	return m, nil
}

func (m MenuModel) label(it menuItem) string {
	switch it {
	case itemPlay:
		return "Play"
	case itemScores:
		return "High Scores"
	case itemDifficulty:
		return fmt.Sprintf("Difficulty: < %s >", m.Difficulty())
	case itemQuit:
		return "Quit"
	}
	return ""
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.theme.Title.Render(centerText("  S N A K E  ", m.width)))
	b.WriteString("\n\n")

	if m.highScore > 0 {
		b.WriteString(m.theme.Description.Render(centerText(fmt.Sprintf("High score: %d", m.highScore), m.width)))
		b.WriteString("\n\n")
	}

	for i, it := range m.items {
		line := "  " + m.label(it)
		style := m.theme.ItemNormal
		if i == m.cursor {
			line = "> " + m.label(it)
			style = m.theme.ItemActive
		}
		b.WriteString(style.Render(centerText(line, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Description.Render(centerText(difficultyDescriptions[m.Difficulty()], m.width)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Help.Render(centerText("up/down select • left/right difficulty • enter confirm • q quit", m.width)))

	return b.String()
}

// Choice returns the player's pick, ChoiceNone while still browsing.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Difficulty returns the selected difficulty preset.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return difficulties[m.difficulty]
}
