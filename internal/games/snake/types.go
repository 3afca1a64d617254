package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// GridPosition is a cell on the square board.
type GridPosition struct {
	X, Y int
}

// Step returns the neighbouring cell in direction d on an n×n wrap-around board.
func (p GridPosition) Step(d Direction, n int) GridPosition {
	dx, dy := d.Delta()
	return GridPosition{X: core.Wrap(p.X+dx, n), Y: core.Wrap(p.Y+dy, n)}
}

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Delta returns the unit step of d. Y grows downwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// DirectionFromAction maps a semantic input action to a direction.
func DirectionFromAction(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	default:
		return 0, false
	}
}

// FoodType selects what happens when food is eaten.
type FoodType int

const (
	FoodRegular FoodType = iota
	FoodDoubleScore
	FoodSpeedBoost
	FoodSpeedUp
	FoodSlowDown
)

func (t FoodType) String() string {
	switch t {
	case FoodRegular:
		return "regular"
	case FoodDoubleScore:
		return "double_score"
	case FoodSpeedBoost:
		return "speed_boost"
	case FoodSpeedUp:
		return "speed_up"
	case FoodSlowDown:
		return "slow_down"
	default:
		return "unknown"
	}
}

// Food is the single edible item on the board.
type Food struct {
	Pos  GridPosition
	Type FoodType
}

// GameState is the lifecycle state of an episode.
type GameState int

const (
	StatePaused GameState = iota
	StateRunning
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
