package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// loadTimeout bounds leaderboard queries.
const loadTimeout = 3 * time.Second

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Play key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Play, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Play, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter/r", "play again"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the leaderboard screen.
type ScoreboardModel struct {
	store     *storage.Store
	highlight uuid.UUID // Episode just played, zero for none
	scores    []storage.ScoreRecord
	stats     storage.Stats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	theme     Theme
	width     int
	height    int

	standalone bool // Quit the program instead of reporting back
	quitting   bool
	goingBack  bool
	playAgain  bool
}

// NewScoreboardModel creates a scoreboard and loads the current leaderboard.
func NewScoreboardModel(store *storage.Store, highlight uuid.UUID, theme Theme, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:     store,
		highlight: highlight,
		keys:      DefaultScoreboardKeyMap(),
		help:      h,
		theme:     theme,
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.loadScores()
	return m
}

// createTable creates a new table with columns sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: maxNameLength},
		{Title: "Score", Width: 7},
		{Title: "Speed", Width: 6},
		{Title: "Date", Width: 12},
	}

	// Title, stats, help and margins take 10 rows; the table never
	// grows past the board size.
	limit := storage.DefaultLimit
	if m.store != nil {
		limit = m.store.Limit()
	}
	height := core.Clamp(m.height-10, 3, max(limit+2, 3))

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.TableBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = m.theme.TableSelected
	t.SetStyles(s)

	return t
}

// loadScores reads the leaderboard and its stats.
func (m *ScoreboardModel) loadScores() {
	m.scores = nil
	m.loadErr = nil
	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		scores, err := m.store.TopScores(ctx, m.store.Limit())
		if err != nil {
			m.loadErr = err
		} else {
			m.scores = scores
		}
		if stats, err := m.store.Stats(ctx); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows fills the table and selects the highlighted episode.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	selected := 0
	for i, s := range m.scores {
		rank := fmt.Sprintf("#%d", i+1)
		if m.highlight != uuid.Nil && s.EpisodeID == m.highlight.String() {
			rank = "*" + rank
			selected = i
		}
		rows[i] = table.Row{
			rank,
			s.PlayerName,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%.2fx", s.SpeedFactor),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(selected)
	}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, m.exit()

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, m.exit()

		case key.Matches(msg, m.keys.Play):
			m.playAgain = true
			return m, m.exit()

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) exit() tea.Cmd {
	if m.standalone {
		return tea.Quit
	}
	return nil
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.standalone && (m.quitting || m.goingBack || m.playAgain) {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.theme.Title.Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.TableBorder).
		Padding(0, 1)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tableStyle.Render(m.renderTableContent())))
	b.WriteString("\n")

	if m.stats.Entries > 0 {
		line := fmt.Sprintf("%d entries • best %d • average %.0f • top speed %.2fx",
			m.stats.Entries, m.stats.BestScore, m.stats.AverageScore, m.stats.TopSpeed)
		b.WriteString(m.theme.Description.Render(centerText(line, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	switch {
	case m.store == nil:
		return m.theme.Description.Padding(2, 4).Render("Scores are not being recorded.")
	case m.loadErr != nil:
		return m.theme.Error.Padding(2, 4).Render("Could not load scores: " + m.loadErr.Error())
	case len(m.scores) == 0:
		return m.theme.Description.Padding(2, 4).Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// WantsPlay returns true if user asked for another game.
func (m ScoreboardModel) WantsPlay() bool {
	return m.playAgain
}

// RunScoreboard runs the leaderboard as its own program.
func RunScoreboard(store *storage.Store, theme Theme) error {
	model := NewScoreboardModel(store, uuid.Nil, theme, 0, 0)
	model.standalone = true

	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
