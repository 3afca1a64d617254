package snake

import (
	"slices"

	"github.com/google/uuid"
)

// Snapshot is an immutable view of the simulation, produced after every mutation.
// Slices are copies owned by the receiver.
type Snapshot struct {
	EpisodeID uuid.UUID
	Tick      uint64
	State     GameState
	BoardSize int

	Snake     []GridPosition // Head first
	Direction Direction
	Food      Food
	HasFood   bool // False only when the board had no free cell left
	Obstacles []GridPosition

	Score           int
	SpeedFactor     float64 // Effective factor, base composed with the boost
	BaseSpeedFactor float64

	DoubleScoreActive    bool
	PulsatingSpeedActive bool
	DeathAnimationActive bool
	ShowInstructions     bool
}

// snapshotLocked builds a snapshot of the current state. Caller holds e.mu.
func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		EpisodeID: e.episode,
		Tick:      e.tick,
		State:     e.state,
		BoardSize: e.cfg.Board.Size,

		Snake:     slices.Clone(e.snake),
		Direction: e.dir,
		Food:      e.food,
		HasFood:   e.hasFood,
		Obstacles: slices.Clone(e.obstacles),

		Score:           e.score,
		SpeedFactor:     e.effectiveSpeed(),
		BaseSpeedFactor: e.baseSpeed,

		DoubleScoreActive:    e.doubleScore,
		PulsatingSpeedActive: e.speedBoost,
		DeathAnimationActive: e.deathAnimation,
		ShowInstructions:     e.showInstructions,
	}
}

// emit pushes a fresh snapshot to every observer. Caller holds e.mu.
func (e *Engine) emit() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.snapshotLocked()
	for _, o := range e.observers {
		o.fn(snap)
	}
}
