// Package snake implements the snake simulation: a wrap-around board with
// five food types, obstacles, timed effects and a self-scheduling tick loop.
//
// The Engine owns all game state. Hosts drive it through intent methods,
// observe it through Subscribe and receive one-shot navigation signals
// through OnEvent.
package snake

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
)

// EngineConfig configures a new Engine.
type EngineConfig struct {
	Game   config.SnakeConfig
	Clock  core.Clock  // Defaults to core.RealClock
	Seed   int64       // 0 picks a seed from the clock
	Logger *log.Logger // Defaults to a discarding logger
}

// Engine is the snake simulation core. It is safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	cfg   config.SnakeConfig
	clock core.Clock
	rng   *rand.Rand
	log   *log.Logger

	episode uuid.UUID
	tick    uint64
	state   GameState

	snake     []GridPosition // Head at index 0
	dir       Direction      // Direction of the last committed move
	pending   Direction      // Applied on the next tick
	food      Food
	hasFood   bool
	obstacles []GridPosition

	score        int
	baseSpeed    float64
	regularEaten int

	doubleScore      bool
	speedBoost       bool
	deathAnimation   bool
	showInstructions bool
	gameOverHandled  bool
	scoreResolved    bool
	closed           bool

	tickSlot   timerSlot
	doubleSlot timerSlot
	boostSlot  timerSlot
	deathSlot  timerSlot

	nextID    int
	observers []observer
	listeners []listener
	outbox    []Event
}

type observer struct {
	id int
	fn func(Snapshot)
}

type listener struct {
	id int
	fn func(Event)
}

// NewEngine validates the configuration and returns an engine in a fresh,
// paused episode.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Game.Validate(); err != nil {
		return nil, fmt.Errorf("snake: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = core.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = cfg.Clock.Now().UnixNano()
	}

	e := &Engine{
		cfg:   cfg.Game,
		clock: cfg.Clock,
		rng:   rand.New(rand.NewSource(seed)),
		log:   cfg.Logger,
	}
	e.reset()
	return e, nil
}

// ErrClosed is returned by Subscribe and OnEvent after Close.
var ErrClosed = errors.New("snake: engine closed")

// Subscribe registers fn for every snapshot, starting with the current one.
// fn runs while the engine lock is held: it must not block and must not call
// back into the engine.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func(), err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return func() {}, ErrClosed
	}
	e.nextID++
	id := e.nextID
	e.observers = append(e.observers, observer{id: id, fn: fn})
	fn(e.snapshotLocked())

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.observers = slices.DeleteFunc(e.observers, func(o observer) bool { return o.id == id })
	}, nil
}

// OnEvent registers fn for one-shot events. Events are delivered after the
// engine lock is released, on the goroutine of the intent that caused them.
func (e *Engine) OnEvent(fn func(Event)) (cancel func(), err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return func() {}, ErrClosed
	}
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.listeners = slices.DeleteFunc(e.listeners, func(l listener) bool { return l.id == id })
	}, nil
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// do runs fn under the engine lock and then delivers any queued events.
func (e *Engine) do(fn func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	fn()
	e.unlockAndDispatch()
}

// unlockAndDispatch releases e.mu and hands queued events to listeners.
func (e *Engine) unlockAndDispatch() {
	events := e.outbox
	e.outbox = nil
	var listeners []listener
	if len(events) > 0 {
		listeners = slices.Clone(e.listeners)
	}
	e.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			l.fn(ev)
		}
	}
}

func (e *Engine) notify(ev Event) {
	e.outbox = append(e.outbox, ev)
}

// Initialize resets the episode and shows the instructions.
func (e *Engine) Initialize() {
	e.do(func() {
		e.reset()
		e.showInstructions = true
		e.emit()
	})
}

// Reset starts a new paused episode.
func (e *Engine) Reset() {
	e.do(e.reset)
}

func (e *Engine) reset() {
	e.cancelAll()

	id, err := uuid.NewRandomFromReader(e.rng)
	if err != nil {
		id = uuid.New()
	}
	e.episode = id
	e.tick = 0
	e.state = StatePaused
	e.score = 0
	e.baseSpeed = e.cfg.Speed.Initial
	e.regularEaten = 0
	e.doubleScore = false
	e.speedBoost = false
	e.deathAnimation = false
	e.gameOverHandled = false
	e.scoreResolved = false

	n := e.cfg.Board.Size
	c := n / 2
	e.snake = []GridPosition{{X: c, Y: c}, {X: c - 1, Y: c}, {X: c - 2, Y: c}}
	e.dir = DirRight
	e.pending = DirRight

	e.hasFood = false
	e.obstacles = e.obstacles[:0]
	count := 1 + e.rng.Intn(e.cfg.Obstacles.Max)
	for range count {
		if !e.spawnObstacle() {
			break
		}
	}
	e.spawnFood()

	e.log.Debug("episode reset", "episode", e.episode, "obstacles", len(e.obstacles))
	e.emit()
}

// Start begins the tick loop of a paused episode.
func (e *Engine) Start() {
	e.do(e.start)
}

// Resume continues a paused episode. It behaves exactly like Start.
func (e *Engine) Resume() {
	e.do(e.start)
}

func (e *Engine) start() {
	if e.state != StatePaused {
		return
	}
	e.state = StateRunning
	e.resumeSlot(&e.doubleSlot)
	e.resumeSlot(&e.boostSlot)
	e.scheduleTick()
	e.log.Debug("running", "episode", e.episode)
	e.emit()
}

// Pause stops the tick loop of a running episode. Timed effects keep the
// time they had left and continue on resume.
func (e *Engine) Pause() {
	e.do(e.pause)
}

func (e *Engine) pause() {
	if e.state != StateRunning {
		return
	}
	e.state = StatePaused
	e.tickSlot.cancel()
	e.suspend(&e.doubleSlot)
	e.suspend(&e.boostSlot)
	e.log.Debug("paused", "episode", e.episode)
	e.emit()
}

// Restart resets the episode and starts it immediately.
func (e *Engine) Restart() {
	e.do(func() {
		e.reset()
		e.start()
	})
}

// TogglePause pauses a running game, resumes a paused one and restarts a
// finished one.
func (e *Engine) TogglePause() {
	e.do(func() {
		switch e.state {
		case StateRunning:
			e.pause()
		case StatePaused:
			e.start()
		case StateGameOver:
			e.reset()
			e.start()
		}
	})
}

// ChangeDirection queues d for the next tick. A reversal of the current
// direction of travel is ignored; between ticks the last valid request wins.
func (e *Engine) ChangeDirection(d Direction) {
	e.do(func() {
		if !d.Valid() || d == e.dir.Opposite() {
			return
		}
		e.pending = d
	})
}

// ShowInstructions raises the instructions overlay.
func (e *Engine) ShowInstructions() {
	e.do(func() {
		e.showInstructions = true
		e.emit()
	})
}

// DismissInstructions hides the instructions overlay.
func (e *Engine) DismissInstructions() {
	e.do(func() {
		e.showInstructions = false
		e.emit()
	})
}

// HandleGameOver requests the save-score dialog once per finished episode,
// after the death animation has ended. Other calls are no-ops.
func (e *Engine) HandleGameOver() {
	e.do(func() {
		if e.state != StateGameOver || e.deathAnimation || e.gameOverHandled {
			return
		}
		e.gameOverHandled = true
		e.notify(ShowSaveScoreDialogEvent{EpisodeID: e.episode, Score: e.score})
	})
}

// SaveScore forwards the player's name with the episode result. It only
// answers an open save-score dialog and is ignored otherwise.
func (e *Engine) SaveScore(name string) {
	e.do(func() {
		if !e.resolveScore() {
			return
		}
		e.notify(NavigateToLeaderboardEvent{
			EpisodeID:   e.episode,
			Score:       e.score,
			SpeedFactor: e.effectiveSpeed(),
			PlayerName:  &name,
		})
	})
}

// DismissSaveScore continues to the leaderboard without a name. Like
// SaveScore it needs an open save-score dialog.
func (e *Engine) DismissSaveScore() {
	e.do(func() {
		if !e.resolveScore() {
			return
		}
		e.notify(NavigateToLeaderboardEvent{
			EpisodeID:   e.episode,
			Score:       e.score,
			SpeedFactor: e.effectiveSpeed(),
		})
	})
}

// resolveScore closes the episode's save-score dialog. It reports false when
// no dialog was requested or it was already answered.
func (e *Engine) resolveScore() bool {
	if e.state != StateGameOver || !e.gameOverHandled || e.scoreResolved {
		return false
	}
	e.scoreResolved = true
	return true
}

// BackPressed pauses a running game and asks the host to navigate back.
func (e *Engine) BackPressed() {
	e.do(func() {
		e.pause()
		e.notify(NavigateBackEvent{})
	})
}

// Close cancels every timer and drops all observers. Later intents are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancelAll()
	e.observers = nil
	e.listeners = nil
	e.outbox = nil
}
