package snake

import "github.com/google/uuid"

// Event is a one-shot, episode-level notification for the host.
// Events are delivered once and are never replayed to late listeners.
type Event interface {
	snakeEvent()
}

// NavigateToLeaderboardEvent asks the host to show the leaderboard.
// PlayerName is nil when the player dismissed the save-score dialog.
type NavigateToLeaderboardEvent struct {
	EpisodeID   uuid.UUID
	Score       int
	SpeedFactor float64
	PlayerName  *string
}

func (NavigateToLeaderboardEvent) snakeEvent() {}

// ShowSaveScoreDialogEvent asks the host to offer saving the final score.
type ShowSaveScoreDialogEvent struct {
	EpisodeID uuid.UUID
	Score     int
}

func (ShowSaveScoreDialogEvent) snakeEvent() {}

// NavigateBackEvent asks the host to leave the game screen.
type NavigateBackEvent struct{}

func (NavigateBackEvent) snakeEvent() {}
