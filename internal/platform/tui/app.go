package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Screen identifies the active view of the app.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenGame
	ScreenScores
)

// AppOptions configures the whole front end.
type AppOptions struct {
	Game          config.SnakeConfig // Before the difficulty preset is applied
	Difficulty    config.DifficultyPreset
	Store         *storage.Store // Optional
	Seed          int64          // Used for the first game only, 0 picks a time-based seed
	Logger        *log.Logger
	PlayerName    string
	ScreenshotDir string
	Start         Screen
}

// AppModel switches between the menu, the game and the leaderboard.
// Local play and SSH sessions both run it.
type AppModel struct {
	opts   AppOptions
	theme  Theme
	screen Screen
	menu   MenuModel
	game   *GameModel
	scores ScoreboardModel
	err    error
	width  int
	height int
	live   *liveSession
}

// liveSession tracks the running engine across model copies so the
// owner of the program can stop it from outside the update loop.
type liveSession struct {
	mu   sync.Mutex
	sess *session.Session
}

func (l *liveSession) set(s *session.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sess != nil && l.sess != s {
		l.sess.Close()
	}
	l.sess = s
}

// NewAppModel creates the app on its start screen.
func NewAppModel(opts AppOptions, width, height int) AppModel {
	if opts.Difficulty == "" {
		opts.Difficulty = config.DifficultyNormal
	}
	m := AppModel{
		opts:   opts,
		theme:  ThemeByName(opts.Game.Display.Theme),
		width:  width,
		height: height,
		live:   &liveSession{},
	}
	m.menu = NewMenuModel(opts.Store, opts.Difficulty, m.theme, width, height)

	switch opts.Start {
	case ScreenGame:
		m.startGame()
	case ScreenScores:
		m.openScores(uuid.Nil)
	}
	return m
}

// Init starts the active screen.
func (m AppModel) Init() tea.Cmd {
	if m.screen == ScreenGame && m.game != nil {
		return m.game.Init()
	}
	return nil
}

// Update routes messages to the active screen and handles transitions.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
	}

	switch m.screen {
	case ScreenGame:
		return m.updateGame(msg)
	case ScreenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.menu.Update(msg)
	if mm, ok := updated.(MenuModel); ok {
		m.menu = mm
	}

	choice := m.menu.Choice()
	m.menu.choice = ChoiceNone
	m.opts.Difficulty = m.menu.Difficulty()

	switch choice {
	case ChoicePlay:
		m.err = nil
		return m, m.startGame()
	case ChoiceScores:
		m.openScores(uuid.Nil)
		return m, nil
	case ChoiceQuit:
		return m, tea.Quit
	}
	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.game == nil {
		m.screen = ScreenMenu
		return m, nil
	}

	updated, cmd := m.game.Update(msg)
	if gm, ok := updated.(GameModel); ok {
		m.game = &gm
	}

	switch m.game.Outcome() {
	case OutcomeBack:
		m.closeGame()
		m.openMenu()
		return m, nil
	case OutcomeLeaderboard:
		highlight := m.game.Highlight()
		m.closeGame()
		m.openScores(highlight)
		return m, nil
	case OutcomeQuit:
		m.closeGame()
		return m, tea.Quit
	}
	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.scores.Update(msg)
	if sm, ok := updated.(ScoreboardModel); ok {
		m.scores = sm
	}

	switch {
	case m.scores.IsQuitting():
		return m, tea.Quit
	case m.scores.WantsPlay():
		return m, m.startGame()
	case m.scores.IsGoingBack():
		m.openMenu()
		return m, nil
	}
	return m, cmd
}

// startGame creates a fresh session with the selected difficulty.
func (m *AppModel) startGame() tea.Cmd {
	cfg := m.opts.Game
	config.ApplySnakePreset(&cfg, m.opts.Difficulty)

	game, err := NewGameModel(GameOptions{
		Game:          cfg,
		Store:         m.opts.Store,
		Seed:          m.opts.Seed,
		Logger:        m.opts.Logger,
		PlayerName:    m.opts.PlayerName,
		ScreenshotDir: m.opts.ScreenshotDir,
	}, m.width, m.height)
	m.opts.Seed = 0
	if err != nil {
		if m.opts.Logger != nil {
			m.opts.Logger.Error("could not start game", "error", err)
		}
		m.err = err
		m.openMenu()
		return nil
	}

	m.game = &game
	m.live.set(game.sess)
	m.screen = ScreenGame
	return game.Init()
}

func (m *AppModel) closeGame() {
	m.game = nil
	m.live.set(nil)
}

func (m *AppModel) openMenu() {
	m.menu = NewMenuModel(m.opts.Store, m.opts.Difficulty, m.theme, m.width, m.height)
	m.screen = ScreenMenu
}

func (m *AppModel) openScores(highlight uuid.UUID) {
	m.scores = NewScoreboardModel(m.opts.Store, highlight, m.theme, m.width, m.height)
	m.screen = ScreenScores
}

// View renders the active screen.
func (m AppModel) View() string {
	switch m.screen {
	case ScreenGame:
		if m.game != nil {
			return m.game.View()
		}
	case ScreenScores:
		return m.scores.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n\n" + m.theme.Error.Render(centerText(m.err.Error(), m.width))
	}
	return view
}

// Shutdown stops a running game. It is safe to call from any goroutine
// once the program has exited or its connection is gone.
func (m AppModel) Shutdown() {
	m.live.set(nil)
}

// Run starts the app in the current terminal.
func Run(opts AppOptions, width, height int) error {
	p := tea.NewProgram(NewAppModel(opts, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if app, ok := final.(AppModel); ok {
		app.Shutdown()
	}
	return err
}
