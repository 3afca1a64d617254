package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// GameOptions configures a game screen.
type GameOptions struct {
	Game          config.SnakeConfig
	Store         *storage.Store // Optional
	Seed          int64          // 0 picks a time-based seed
	Logger        *log.Logger
	PlayerName    string     // Prefilled in the save dialog
	ScreenshotDir string     // Defaults to ~/.snake/screenshots
	Clock         core.Clock // Defaults to the wall clock
}

// Outcome tells the parent model what the game screen asked for.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeBack
	OutcomeLeaderboard
	OutcomeQuit
)

// GameModel shows one snake session.
type GameModel struct {
	sess      *session.Session
	opts      GameOptions
	keyMapper *KeyMapper
	theme     Theme
	screen    *core.Screen

	snap     snake.Snapshot
	haveSnap bool
	dialog   *SaveDialog
	notice   string

	width  int
	height int

	outcome   Outcome
	highlight uuid.UUID // Episode to highlight on the leaderboard
}

// NewGameModel starts a new engine session for the screen.
func NewGameModel(opts GameOptions, width, height int) (GameModel, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	opts.PlayerName = trimName(opts.PlayerName)

	cfg := session.Config{
		Game:   opts.Game,
		Clock:  opts.Clock,
		Seed:   opts.Seed,
		Logger: opts.Logger,
	}
	if opts.Store != nil {
		cfg.Store = opts.Store
	}

	sess, err := session.New(cfg)
	if err != nil {
		return GameModel{}, err
	}
	sess.Engine().Initialize()

	w, h := snake.ScreenSize(opts.Game.Board.Size)
	return GameModel{
		sess:      sess,
		opts:      opts,
		keyMapper: NewKeyMapper(),
		theme:     ThemeByName(opts.Game.Display.Theme),
		screen:    core.NewScreen(w, h),
		width:     width,
		height:    height,
	}, nil
}

// Init starts listening to the session.
func (m GameModel) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.sess), waitForEvent(m.sess))
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		if msg.from != m.sess {
			return m, nil
		}
		return m.handleSnapshot(msg.Snapshot)

	case EventMsg:
		if msg.from != m.sess {
			return m, nil
		}
		return m.handleEvent(msg.Event)

	case sessionClosedMsg:
		return m, nil

	case qualifiesMsg:
		if msg.from == m.sess && m.dialog != nil {
			m.dialog.SetQualifies(msg.ok)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.dialog != nil {
		d, cmd := m.dialog.Update(msg)
		m.dialog = &d
		return m, cmd
	}
	return m, nil
}

func (m GameModel) handleSnapshot(snap snake.Snapshot) (tea.Model, tea.Cmd) {
	m.snap = snap
	m.haveSnap = true
	if snap.State == snake.StateGameOver && !snap.DeathAnimationActive {
		// The engine ignores repeats within an episode.
		m.sess.Engine().HandleGameOver()
	}
	return m, waitForSnapshot(m.sess)
}

func (m GameModel) handleEvent(ev session.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case snake.ShowSaveScoreDialogEvent:
		d := NewSaveDialog(ev.Score, m.opts.PlayerName, m.theme)
		m.dialog = &d
		cmds := []tea.Cmd{waitForEvent(m.sess), textinput.Blink}
		if m.opts.Store != nil {
			cmds = append(cmds, checkQualifies(m.sess, m.opts.Store, ev.Score))
		}
		return m, tea.Batch(cmds...)

	case snake.NavigateToLeaderboardEvent:
		m.dialog = nil
		m.highlight = ev.EpisodeID
		// A named save is followed by ScoreSavedEvent.
		if ev.PlayerName == nil {
			m.outcome = OutcomeLeaderboard
		}

	case session.ScoreSavedEvent:
		if ev.Err != nil {
			m.notice = "could not save score"
		}
		m.outcome = OutcomeLeaderboard

	case snake.NavigateBackEvent:
		m.outcome = OutcomeBack
	}
	return m, waitForEvent(m.sess)
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.outcome = OutcomeQuit
		return m, nil
	}

	if m.dialog != nil {
		d, cmd := m.dialog.Update(msg)
		m.dialog = &d
		switch d.Result() {
		case DialogSubmitted:
			m.dialog = nil
			m.sess.Engine().SaveScore(d.Name())
		case DialogCancelled:
			m.dialog = nil
			m.sess.Engine().DismissSaveScore()
		}
		return m, cmd
	}

	if msg.String() == "ctrl+s" {
		if err := m.saveScreenshot(); err != nil {
			m.notice = "screenshot failed"
		} else {
			m.notice = "screenshot saved"
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.outcome = OutcomeQuit
		return m, nil
	}
	m.sess.Apply(action)
	return m, nil
}

// saveScreenshot writes the current board as plain text without trailing
// blanks.
func (m *GameModel) saveScreenshot() error {
	if !m.haveSnap {
		return nil
	}
	snake.Render(m.screen, m.snap)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".snake", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var b strings.Builder
	for y := 0; y < m.screen.Height(); y++ {
		b.WriteString(strings.TrimRight(m.screen.Row(y), " "))
		b.WriteByte('\n')
	}

	name := fmt.Sprintf("snake_%s_%s.txt", time.Now().Format("20060102_150405"), m.snap.EpisodeID.String()[:8])
	return os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o600)
}

// View renders the board, or the save dialog on top of it.
func (m GameModel) View() string {
	if m.outcome == OutcomeQuit {
		return ""
	}
	if !m.haveSnap {
		return "loading..."
	}

	needW, needH := m.screen.Width(), m.screen.Height()+1
	if m.width > 0 && (m.width < needW || m.height < needH) {
		msg := fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", needW, needH, m.width, m.height)
		return m.theme.Error.Render(msg)
	}

	var content string
	if m.dialog != nil {
		content = m.dialog.View()
	} else {
		snake.Render(m.screen, m.snap)
		content = RenderScreen(m.screen, m.theme)
	}

	footer := "ctrl+s screenshot • q quit"
	if m.notice != "" {
		footer = m.notice
	}
	content = lipgloss.JoinVertical(lipgloss.Center, content, m.theme.Help.Render(footer))

	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// Outcome returns what the screen asked the parent to do.
func (m GameModel) Outcome() Outcome {
	return m.outcome
}

// Highlight returns the episode the leaderboard should highlight.
func (m GameModel) Highlight() uuid.UUID {
	return m.highlight
}

// Close stops the engine. Later messages from the session are ignored.
func (m GameModel) Close() {
	if m.sess != nil {
		m.sess.Close()
	}
}

// trimName keeps names within the leaderboard column.
func trimName(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}
	return name
}
