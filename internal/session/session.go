// Package session hosts one snake engine for one screen: it bridges the
// engine's callbacks to channels for the front end and persists scores
// when the engine asks for the leaderboard.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// ScoreSaver persists leaderboard records. *storage.Store implements it.
type ScoreSaver interface {
	SaveScore(ctx context.Context, rec storage.ScoreRecord) (bool, error)
}

// DefaultPlayerName is stored when the player saves with a blank name.
const DefaultPlayerName = "Anonymous"

// saveTimeout bounds a single leaderboard write.
const saveTimeout = 5 * time.Second

// Config configures a Session.
type Config struct {
	Game        config.SnakeConfig
	Store       ScoreSaver // Optional; scores are not persisted when nil
	Clock       core.Clock
	Seed        int64
	Logger      *log.Logger
	EventBuffer int // Defaults to 16
}

// ScoreSavedEvent follows a NavigateToLeaderboardEvent whose record was written.
type ScoreSavedEvent struct {
	Record  storage.ScoreRecord
	OnBoard bool  // False when the score fell off a full board
	Err     error // Non-nil when the write failed
}

// Event is either a snake.Event or a ScoreSavedEvent.
type Event any

// Session owns an engine and forwards its output to channels.
type Session struct {
	engine *snake.Engine
	store  ScoreSaver
	clock  core.Clock
	log    *log.Logger

	snapshots chan snake.Snapshot
	events    chan Event
	done      chan struct{}
	doneOnce  sync.Once
	cancels   []func()
	saveMu    sync.Mutex // Orders saves.Add against Close
	saves     sync.WaitGroup
}

// New builds the engine and wires it to the session's channels.
func New(cfg Config) (*Session, error) {
	if cfg.Clock == nil {
		cfg.Clock = core.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.EventBuffer < 1 {
		cfg.EventBuffer = 16
	}

	engine, err := snake.NewEngine(snake.EngineConfig{
		Game:   cfg.Game,
		Clock:  cfg.Clock,
		Seed:   cfg.Seed,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		engine:    engine,
		store:     cfg.Store,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		snapshots: make(chan snake.Snapshot, 1),
		events:    make(chan Event, cfg.EventBuffer),
		done:      make(chan struct{}),
	}

	unsubscribe, err := engine.Subscribe(s.publish)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	stopEvents, err := engine.OnEvent(s.handleEvent)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("session: %w", err)
	}
	s.cancels = []func(){unsubscribe, stopEvents}

	return s, nil
}

// Engine returns the hosted engine for sending intents.
func (s *Session) Engine() *snake.Engine {
	return s.engine
}

// Snapshots returns the latest-snapshot channel. It holds at most one
// snapshot; an unread snapshot is replaced by a newer one.
func (s *Session) Snapshots() <-chan snake.Snapshot {
	return s.snapshots
}

// Events returns the one-shot event channel.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close tears the engine down and waits for pending score writes. It is
// safe to call more than once.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		for _, cancel := range s.cancels {
			cancel()
		}
		s.engine.Close()
		s.saveMu.Lock()
		close(s.done)
		s.saveMu.Unlock()
	})
	s.saves.Wait()
}

// publish runs under the engine lock and must not block.
func (s *Session) publish(snap snake.Snapshot) {
	select {
	case s.snapshots <- snap:
		return
	default:
	}
	// Drop the stale snapshot and retry
	select {
	case <-s.snapshots:
	default:
	}
	select {
	case s.snapshots <- snap:
	default:
	}
}

func (s *Session) handleEvent(ev snake.Event) {
	s.send(ev)

	nav, ok := ev.(snake.NavigateToLeaderboardEvent)
	if !ok || nav.PlayerName == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	select {
	case <-s.done:
		s.log.Warn("session closed, score not saved", "score", nav.Score)
		return
	default:
	}

	// The write runs off the caller's goroutine; the result follows as
	// a ScoreSavedEvent.
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		s.send(s.save(nav))
	}()
}

func (s *Session) save(nav snake.NavigateToLeaderboardEvent) ScoreSavedEvent {
	name := strings.TrimSpace(*nav.PlayerName)
	if name == "" {
		name = DefaultPlayerName
	}
	rec := storage.ScoreRecord{
		EpisodeID:   nav.EpisodeID.String(),
		PlayerName:  name,
		Score:       nav.Score,
		SpeedFactor: nav.SpeedFactor,
		CreatedAt:   s.clock.Now(),
	}

	if s.store == nil {
		s.log.Warn("no score store, result not saved", "player", name, "score", nav.Score)
		return ScoreSavedEvent{Record: rec}
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	onBoard, err := s.store.SaveScore(ctx, rec)
	if err != nil {
		s.log.Error("could not save score", "player", name, "score", nav.Score, "error", err)
		return ScoreSavedEvent{Record: rec, Err: err}
	}
	s.log.Info("score saved", "player", name, "score", nav.Score, "on_board", onBoard)
	return ScoreSavedEvent{Record: rec, OnBoard: onBoard}
}

// send forwards an event; when the buffer is full the oldest event is dropped.
func (s *Session) send(ev Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- ev:
		return
	default:
	}
	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- ev:
	default:
	}
}

// Apply maps a semantic action onto an engine intent for the current state.
// ActionQuit is left to the caller.
func (s *Session) Apply(a core.Action) {
	e := s.engine
	if d, ok := snake.DirectionFromAction(a); ok {
		e.ChangeDirection(d)
		return
	}

	snap := e.Snapshot()
	switch a {
	case core.ActionPause:
		if snap.ShowInstructions {
			e.DismissInstructions()
		}
		e.TogglePause()
	case core.ActionRestart:
		e.Restart()
	case core.ActionHelp:
		if snap.ShowInstructions {
			e.DismissInstructions()
			return
		}
		e.Pause()
		e.ShowInstructions()
	case core.ActionConfirm:
		switch {
		case snap.ShowInstructions:
			e.DismissInstructions()
		case snap.State == snake.StateGameOver:
			e.HandleGameOver()
		case snap.State == snake.StatePaused:
			e.Start()
		}
	case core.ActionBack:
		e.BackPressed()
	}
}
