// Package tui provides the Bubble Tea front end for the snake game.
// The engine runs on its own timers; this package only listens to a
// session's channels and forwards key presses as intents.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// SnapshotMsg carries the latest engine snapshot.
type SnapshotMsg struct {
	Snapshot snake.Snapshot
	from     *session.Session
}

// EventMsg carries a one-shot session event.
type EventMsg struct {
	Event session.Event
	from  *session.Session
}

// sessionClosedMsg stops the listeners of a closed session.
type sessionClosedMsg struct {
	from *session.Session
}

// qualifiesMsg tells whether a finished score makes the leaderboard.
type qualifiesMsg struct {
	from *session.Session
	ok   bool
}

// checkQualifies asks the store off the UI goroutine.
func checkQualifies(s *session.Session, store *storage.Store, score int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		ok, err := store.Qualifies(ctx, score)
		if err != nil {
			return nil
		}
		return qualifiesMsg{from: s, ok: ok}
	}
}

// waitForSnapshot blocks until the session publishes a snapshot.
func waitForSnapshot(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-s.Snapshots():
			return SnapshotMsg{Snapshot: snap, from: s}
		case <-s.Done():
			return sessionClosedMsg{from: s}
		}
	}
}

// waitForEvent blocks until the session emits an event.
func waitForEvent(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-s.Events():
			return EventMsg{Event: ev, from: s}
		case <-s.Done():
			return sessionClosedMsg{from: s}
		}
	}
}
