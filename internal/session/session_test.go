package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, store ScoreSaver) (*Session, *core.ManualClock) {
	t.Helper()
	return newSessionWith(t, store, config.DefaultSnakeConfig())
}

// deadlyConfig fills a tiny board with obstacles so every game ends quickly.
func deadlyConfig() config.SnakeConfig {
	cfg := config.DefaultSnakeConfig()
	cfg.Board.Size = 5
	cfg.Obstacles.Max = 21
	cfg.Obstacles.SpawnEvery = 1
	return cfg
}

func newSessionWith(t *testing.T, store ScoreSaver, game config.SnakeConfig) (*Session, *core.ManualClock) {
	t.Helper()
	clock := core.NewManualClock(epoch)
	s, err := New(Config{
		Game:  game,
		Store: store,
		Clock: clock,
		Seed:  99,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s, clock
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// drain collects every buffered event.
func drain(s *Session) []Event {
	var out []Event
	for {
		select {
		case ev := <-s.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

// playUntilGameOver runs a deadlyConfig game to its end and waits out the
// death animation.
func playUntilGameOver(t *testing.T, s *Session, clock *core.ManualClock) snake.Snapshot {
	t.Helper()
	e := s.Engine()
	e.Start()
	for i := 0; i < 1000 && e.Snapshot().State == snake.StateRunning; i++ {
		clock.Advance(50 * time.Millisecond)
	}
	if e.Snapshot().State != snake.StateGameOver {
		t.Fatal("game did not end")
	}
	clock.Advance(2 * time.Second)
	return e.Snapshot()
}

// openDialog ends a deadlyConfig game and requests the save-score dialog.
func openDialog(t *testing.T, s *Session, clock *core.ManualClock) snake.Snapshot {
	t.Helper()
	final := playUntilGameOver(t, s, clock)
	s.Engine().HandleGameOver()
	return final
}

// nextEvent waits for the next session event.
func nextEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case ev := <-s.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a session event")
	}
	return nil
}

// waitSaved skips events until the ScoreSavedEvent arrives.
func waitSaved(t *testing.T, s *Session) ScoreSavedEvent {
	t.Helper()
	for {
		if saved, ok := nextEvent(t, s).(ScoreSavedEvent); ok {
			return saved
		}
	}
}

func TestSnapshotsKeepOnlyLatest(t *testing.T) {
	s, clock := newTestSession(t, nil)
	s.Engine().Start()
	clock.Advance(time.Second)

	select {
	case snap := <-s.Snapshots():
		if snap.Tick == 0 {
			t.Error("expected a snapshot from after several ticks")
		}
		if snap.Tick != s.Engine().Snapshot().Tick {
			t.Errorf("buffered tick %d is not the latest %d", snap.Tick, s.Engine().Snapshot().Tick)
		}
	default:
		t.Fatal("no snapshot buffered")
	}

	select {
	case <-s.Snapshots():
		t.Error("only one snapshot should be buffered")
	default:
	}
}

func TestSaveScorePersistsRecord(t *testing.T) {
	store := openStore(t)
	s, clock := newSessionWith(t, store, deadlyConfig())

	final := openDialog(t, s, clock)
	s.Engine().SaveScore("  ann  ")

	events := []Event{nextEvent(t, s), nextEvent(t, s), nextEvent(t, s)}
	if _, ok := events[0].(snake.ShowSaveScoreDialogEvent); !ok {
		t.Errorf("events[0] = %T, expected ShowSaveScoreDialogEvent", events[0])
	}
	if _, ok := events[1].(snake.NavigateToLeaderboardEvent); !ok {
		t.Errorf("events[1] = %T, expected NavigateToLeaderboardEvent", events[1])
	}
	saved, ok := events[2].(ScoreSavedEvent)
	if !ok {
		t.Fatalf("events[2] = %T, expected ScoreSavedEvent", events[2])
	}
	if saved.Err != nil || !saved.OnBoard {
		t.Errorf("saved = %+v, expected success on the board", saved)
	}

	records, err := store.TopScores(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("stored %d records, expected 1", len(records))
	}
	r := records[0]
	if r.PlayerName != "ann" || r.Score != final.Score || r.EpisodeID != final.EpisodeID.String() {
		t.Errorf("stored %+v, expected ann/%d/%s", r, final.Score, final.EpisodeID)
	}
	if r.SpeedFactor != final.SpeedFactor {
		t.Errorf("SpeedFactor = %v, expected %v", r.SpeedFactor, final.SpeedFactor)
	}
	if !r.CreatedAt.Equal(clock.Now().Truncate(time.Millisecond)) {
		t.Errorf("CreatedAt = %v, expected clock time %v", r.CreatedAt, clock.Now())
	}

	// The dialog is answered; a second save is ignored.
	s.Engine().SaveScore("ann")
	s.Close()
	if events := drain(s); len(events) != 0 {
		t.Errorf("second save produced events: %#v", events)
	}
	records, _ = store.TopScores(context.Background(), 0)
	if len(records) != 1 {
		t.Errorf("stored %d records after a second save, expected 1", len(records))
	}
}

func TestBlankNameUsesDefault(t *testing.T) {
	store := openStore(t)
	s, clock := newSessionWith(t, store, deadlyConfig())
	openDialog(t, s, clock)
	s.Engine().SaveScore("   ")
	waitSaved(t, s)

	records, err := store.TopScores(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].PlayerName != DefaultPlayerName {
		t.Errorf("records = %+v, expected one %s record", records, DefaultPlayerName)
	}
}

func TestSaveScoreIgnoredMidGame(t *testing.T) {
	store := openStore(t)
	s, _ := newTestSession(t, store)
	s.Engine().Start()
	s.Engine().SaveScore("eve")
	s.Close()

	if events := drain(s); len(events) != 0 {
		t.Errorf("got events %#v, expected none", events)
	}
	records, err := store.TopScores(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("stored %d records, expected none", len(records))
	}
}

func TestDismissSaveScoreDoesNotPersist(t *testing.T) {
	store := openStore(t)
	s, clock := newSessionWith(t, store, deadlyConfig())
	openDialog(t, s, clock)
	s.Engine().DismissSaveScore()
	s.Close()

	records, err := store.TopScores(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("stored %d records, expected none", len(records))
	}
	var navigated bool
	for _, ev := range drain(s) {
		switch ev := ev.(type) {
		case ScoreSavedEvent:
			t.Error("no ScoreSavedEvent expected after dismiss")
		case snake.NavigateToLeaderboardEvent:
			navigated = ev.PlayerName == nil
		}
	}
	if !navigated {
		t.Error("dismiss should navigate to the leaderboard without a name")
	}
}

type failingSaver struct{}

func (failingSaver) SaveScore(context.Context, storage.ScoreRecord) (bool, error) {
	return false, errors.New("disk full")
}

func TestStoreFailureIsReported(t *testing.T) {
	s, clock := newSessionWith(t, failingSaver{}, deadlyConfig())
	openDialog(t, s, clock)
	s.Engine().SaveScore("bob")

	if saved := waitSaved(t, s); saved.Err == nil {
		t.Fatalf("expected a failed ScoreSavedEvent, got %+v", saved)
	}
}

// blockingSaver holds every write until release is closed.
type blockingSaver struct {
	started chan struct{}
	release chan struct{}
}

func (b blockingSaver) SaveScore(ctx context.Context, _ storage.ScoreRecord) (bool, error) {
	close(b.started)
	select {
	case <-b.release:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func TestSaveScoreDoesNotBlockEngine(t *testing.T) {
	saver := blockingSaver{started: make(chan struct{}), release: make(chan struct{})}
	s, clock := newSessionWith(t, saver, deadlyConfig())
	openDialog(t, s, clock)

	returned := make(chan struct{})
	go func() {
		s.Engine().SaveScore("kim")
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("SaveScore blocked on the store")
	}

	select {
	case <-saver.started:
	case <-time.After(2 * time.Second):
		t.Fatal("store write never started")
	}
	// The engine keeps serving intents while the write is pending.
	s.Engine().Restart()
	if st := s.Engine().Snapshot().State; st != snake.StateRunning {
		t.Errorf("state after Restart = %s, expected running", st)
	}

	close(saver.release)
	if saved := waitSaved(t, s); saved.Err != nil || !saved.OnBoard || saved.Record.PlayerName != "kim" {
		t.Errorf("saved = %+v, expected kim on the board", saved)
	}
}

func TestClosedSessionSkipsSave(t *testing.T) {
	store := openStore(t)
	s, clock := newSessionWith(t, store, deadlyConfig())
	openDialog(t, s, clock)
	s.Close()
	s.Engine().SaveScore("late")

	records, err := store.TopScores(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("stored %d records after Close, expected none", len(records))
	}
}

func TestApply(t *testing.T) {
	s, _ := newTestSession(t, nil)
	e := s.Engine()

	e.Initialize()
	s.Apply(core.ActionConfirm)
	if e.Snapshot().ShowInstructions {
		t.Fatal("Confirm should dismiss instructions")
	}
	s.Apply(core.ActionConfirm)
	if e.Snapshot().State != snake.StateRunning {
		t.Fatal("Confirm on a paused game should start it")
	}

	s.Apply(core.ActionPause)
	if e.Snapshot().State != snake.StatePaused {
		t.Fatal("Pause should pause a running game")
	}
	s.Apply(core.ActionHelp)
	if !e.Snapshot().ShowInstructions {
		t.Fatal("Help should show instructions")
	}
	s.Apply(core.ActionPause)
	snap := e.Snapshot()
	if snap.ShowInstructions || snap.State != snake.StateRunning {
		t.Errorf("Pause over instructions should dismiss and resume, got %+v", snap)
	}

	episode := snap.EpisodeID
	s.Apply(core.ActionRestart)
	if e.Snapshot().EpisodeID == episode {
		t.Error("Restart should begin a new episode")
	}

	drain(s)
	s.Apply(core.ActionBack)
	events := drain(s)
	if len(events) != 1 {
		t.Fatalf("got %d events, expected NavigateBackEvent", len(events))
	}
	if _, ok := events[0].(snake.NavigateBackEvent); !ok {
		t.Errorf("event = %T, expected NavigateBackEvent", events[0])
	}
}

func TestApplySteers(t *testing.T) {
	s, clock := newTestSession(t, nil)
	s.Engine().Start()
	s.Apply(core.ActionDown)
	clock.Advance(200 * time.Millisecond)

	// The turn is committed at the start of the tick, whatever the move hits.
	if d := s.Engine().Snapshot().Direction; d != snake.DirDown {
		t.Errorf("direction = %s, expected down", d)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s, clock := newTestSession(t, nil)
	s.Engine().Start()
	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		t.Fatal("Done() should be closed")
	}
	if n := clock.Pending(); n != 0 {
		t.Errorf("Pending() = %d after Close, expected 0", n)
	}
}
