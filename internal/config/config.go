// Package config provides YAML-based configuration loading and difficulty
// presets for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// SnakeConfig contains all tunables of the snake simulation.
// It is read once per episode; the game never writes it back.
type SnakeConfig struct {
	Board     SnakeBoard     `yaml:"board"`
	Speed     SnakeSpeed     `yaml:"speed"`
	Effects   SnakeEffects   `yaml:"effects"`
	Food      SnakeFood      `yaml:"food"`
	Obstacles SnakeObstacles `yaml:"obstacles"`
	Display   SnakeDisplay   `yaml:"display"`
}

// SnakeBoard defines the square, wrap-around playfield.
type SnakeBoard struct {
	Size int `yaml:"size"` // Side length in cells
}

// SnakeSpeed defines the tick interval and the speed factor rules.
type SnakeSpeed struct {
	TickInterval       Duration `yaml:"tick_interval"`        // Interval at speed factor 1.0
	Initial            float64  `yaml:"initial"`              // Speed factor after reset
	Min                float64  `yaml:"min"`                  // Floor applied by slow-down food
	Max                float64  `yaml:"max"`                  // Ceiling applied by speed-up rules
	RegularEvery       int      `yaml:"regular_every"`        // Speed up after every N regular foods, 0 disables
	RegularMultiplier  float64  `yaml:"regular_multiplier"`   // Applied every RegularEvery regular foods
	SpeedUpMultiplier  float64  `yaml:"speed_up_multiplier"`  // Permanent, speed-up food
	SlowDownMultiplier float64  `yaml:"slow_down_multiplier"` // Permanent, slow-down food
	PulseAmplitude     float64  `yaml:"pulse_amplitude"`      // Max interval stretch while pulsating
	PulseScale         Duration `yaml:"pulse_scale"`          // Wall-clock time per radian of the pulse wave
}

// SnakeEffects defines the timed effects.
type SnakeEffects struct {
	DoubleScore          Duration `yaml:"double_score"`           // Double score window
	SpeedBoost           Duration `yaml:"speed_boost"`            // Speed boost window
	SpeedBoostMultiplier float64  `yaml:"speed_boost_multiplier"` // Temporary speed factor multiplier
	DeathAnimation       Duration `yaml:"death_animation"`        // Delay before death flag clears
}

// SnakeFood defines the food type distribution.
type SnakeFood struct {
	Weights FoodWeights `yaml:"weights"`
}

// FoodWeights are relative spawn weights per food type. They need not sum to 1.
type FoodWeights struct {
	Regular     float64 `yaml:"regular"`
	DoubleScore float64 `yaml:"double_score"`
	SpeedBoost  float64 `yaml:"speed_boost"`
	SpeedUp     float64 `yaml:"speed_up"`
	SlowDown    float64 `yaml:"slow_down"`
}

// Total returns the sum of all weights.
func (w FoodWeights) Total() float64 {
	return w.Regular + w.DoubleScore + w.SpeedBoost + w.SpeedUp + w.SlowDown
}

// SnakeObstacles defines obstacle generation.
type SnakeObstacles struct {
	Max        int `yaml:"max"`         // Cap; reset places a random count in [1, Max]
	SpawnEvery int `yaml:"spawn_every"` // Add one obstacle every N ticks while below Max, 0 disables
}

// SnakeDisplay holds presentation preferences consumed by the front end.
type SnakeDisplay struct {
	Theme string `yaml:"theme"` // "dark" or "light"
}

// Duration is a time.Duration that reads and writes YAML strings like "1.5s".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MinBoardSize is the smallest board that fits a starting snake, food and an obstacle.
const MinBoardSize = 5

// Validate reports every configuration problem found. A config that fails
// validation is a programming or packaging error and must not reach the game.
func (c SnakeConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Board.Size < MinBoardSize {
		add("board.size must be at least %d, got %d", MinBoardSize, c.Board.Size)
	}

	s := c.Speed
	if s.TickInterval <= 0 {
		add("speed.tick_interval must be positive, got %s", s.TickInterval.Std())
	}
	if s.Min <= 0 {
		add("speed.min must be positive, got %g", s.Min)
	}
	if s.Max < s.Min {
		add("speed.max (%g) must not be below speed.min (%g)", s.Max, s.Min)
	}
	if s.Initial < s.Min || s.Initial > s.Max {
		add("speed.initial (%g) must be within [%g, %g]", s.Initial, s.Min, s.Max)
	}
	if s.RegularEvery < 0 {
		add("speed.regular_every must not be negative, got %d", s.RegularEvery)
	}
	if s.RegularMultiplier <= 0 || s.SpeedUpMultiplier <= 0 || s.SlowDownMultiplier <= 0 {
		add("speed multipliers must be positive")
	}
	if s.PulseAmplitude < 0 {
		add("speed.pulse_amplitude must not be negative, got %g", s.PulseAmplitude)
	}
	if s.PulseScale <= 0 {
		add("speed.pulse_scale must be positive, got %s", s.PulseScale.Std())
	}

	e := c.Effects
	if e.DoubleScore <= 0 || e.SpeedBoost <= 0 {
		add("effect durations must be positive")
	}
	if e.SpeedBoostMultiplier <= 0 {
		add("effects.speed_boost_multiplier must be positive, got %g", e.SpeedBoostMultiplier)
	}
	if e.DeathAnimation < 0 {
		add("effects.death_animation must not be negative, got %s", e.DeathAnimation.Std())
	}

	w := c.Food.Weights
	if w.Regular < 0 || w.DoubleScore < 0 || w.SpeedBoost < 0 || w.SpeedUp < 0 || w.SlowDown < 0 {
		add("food weights must not be negative")
	}
	if w.Total() <= 0 {
		add("food weights must not all be zero")
	}

	o := c.Obstacles
	if o.Max < 1 {
		add("obstacles.max must be at least 1, got %d", o.Max)
	}
	// Starting snake and one food cell must always remain free.
	if c.Board.Size >= MinBoardSize && o.Max > c.Board.Size*c.Board.Size-4 {
		add("obstacles.max (%d) does not fit a %dx%d board", o.Max, c.Board.Size, c.Board.Size)
	}
	if o.SpawnEvery < 0 {
		add("obstacles.spawn_every must not be negative, got %d", o.SpawnEvery)
	}

	switch c.Display.Theme {
	case "", ThemeDark, ThemeLight:
	default:
		add("display.theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Display.Theme)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid snake config: %w", errors.Join(errs...))
	}
	return nil
}

// Theme names understood by the front end.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty validates a preset name. The empty string means normal.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.Initial = max(cfg.Speed.Min, 0.8)
		cfg.Obstacles.Max = min(cfg.Obstacles.Max, 3)
		cfg.Obstacles.SpawnEvery = 0
		cfg.Effects.DoubleScore = Duration(8 * time.Second)
	case DifficultyHard:
		cfg.Speed.Initial = min(cfg.Speed.Max, 1.3)
		cfg.Obstacles.Max = max(cfg.Obstacles.Max, 8)
		cfg.Obstacles.SpawnEvery = 20
		cfg.Effects.DoubleScore = Duration(4 * time.Second)
	case DifficultyFixed:
		// No progression: speed only changes through special food.
		cfg.Speed.RegularEvery = 0
		cfg.Obstacles.SpawnEvery = 0
	}
}
