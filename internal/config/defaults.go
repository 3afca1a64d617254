package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default snake configuration.
// It mirrors defaults/snake.yaml and is the fallback when the embedded file cannot be parsed.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: SnakeBoard{
			Size: 16,
		},
		Speed: SnakeSpeed{
			TickInterval:       Duration(200 * time.Millisecond),
			Initial:            1.0,
			Min:                0.5,
			Max:                5.0,
			RegularEvery:       3,
			RegularMultiplier:  1.1,
			SpeedUpMultiplier:  1.2,
			SlowDownMultiplier: 0.8,
			PulseAmplitude:     0.5,
			PulseScale:         Duration(200 * time.Millisecond),
		},
		Effects: SnakeEffects{
			DoubleScore:          Duration(5 * time.Second),
			SpeedBoost:           Duration(5 * time.Second),
			SpeedBoostMultiplier: 1.5,
			DeathAnimation:       Duration(1500 * time.Millisecond),
		},
		Food: SnakeFood{
			Weights: FoodWeights{
				Regular:     0.80,
				DoubleScore: 0.05,
				SpeedBoost:  0.05,
				SpeedUp:     0.05,
				SlowDown:    0.05,
			},
		},
		Obstacles: SnakeObstacles{
			Max:        5,
			SpawnEvery: 30,
		},
		Display: SnakeDisplay{
			Theme: ThemeDark,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
