package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

func TestScoreboardHighlightsEpisode(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	own := uuid.New()
	records := []storage.ScoreRecord{
		{EpisodeID: uuid.NewString(), PlayerName: "ana", Score: 30, SpeedFactor: 1.2, CreatedAt: base},
		{EpisodeID: own.String(), PlayerName: "bo", Score: 20, SpeedFactor: 1.0, CreatedAt: base.Add(time.Minute)},
		{EpisodeID: uuid.NewString(), PlayerName: "cy", Score: 10, SpeedFactor: 0.9, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		if _, err := store.SaveScore(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, own, DarkTheme(), 100, 30)
	if len(m.scores) != 3 {
		t.Fatalf("loaded %d scores, expected 3", len(m.scores))
	}
	if m.table.Cursor() != 1 {
		t.Errorf("cursor = %d, expected the highlighted row 1", m.table.Cursor())
	}
	row := m.table.SelectedRow()
	if row[0] != "*#2" || row[1] != "bo" || row[3] != "1.00x" {
		t.Errorf("selected row = %v", row)
	}

	v := m.View()
	for _, want := range []string{"HIGH SCORES", "ana", "3 entries", "best 30"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScoreboardKeys(t *testing.T) {
	tests := []struct {
		name  string
		msg   tea.KeyMsg
		check func(ScoreboardModel) bool
	}{
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, ScoreboardModel.IsGoingBack},
		{"play", tea.KeyMsg{Type: tea.KeyEnter}, ScoreboardModel.WantsPlay},
		{"replay", runeKey('r'), ScoreboardModel.WantsPlay},
		{"quit", runeKey('q'), ScoreboardModel.IsQuitting},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewScoreboardModel(nil, uuid.Nil, DarkTheme(), 80, 24)
			updated, cmd := m.Update(tc.msg)
			if !tc.check(updated.(ScoreboardModel)) {
				t.Errorf("%s key not recognised", tc.name)
			}
			if cmd != nil {
				t.Error("embedded scoreboard should not quit the program")
			}
		})
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, uuid.Nil, LightTheme(), 80, 24)
	if !strings.Contains(m.View(), "not being recorded") {
		t.Errorf("view without a store:\n%s", m.View())
	}
}

func TestScoreboardTableFollowsBoardSize(t *testing.T) {
	small := openTestStore(t)
	small.SetLimit(3)
	big := openTestStore(t)

	smallH := NewScoreboardModel(small, uuid.Nil, DarkTheme(), 100, 60).table.Height()
	bigH := NewScoreboardModel(big, uuid.Nil, DarkTheme(), 100, 60).table.Height()
	if smallH >= bigH {
		t.Errorf("table height %d for 3 records, expected less than %d for %d", smallH, bigH, storage.DefaultLimit)
	}

	tiny := NewScoreboardModel(big, uuid.Nil, DarkTheme(), 100, 5).table.Height()
	if tiny > bigH {
		t.Errorf("table height %d in a short window exceeds %d", tiny, bigH)
	}
}
