package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	parsed, err := ParseSnake(DefaultYAML())
	if err != nil {
		t.Fatalf("ParseSnake(embedded) failed: %v", err)
	}
	if parsed != DefaultSnakeConfig() {
		t.Errorf("embedded defaults drifted from DefaultSnakeConfig():\n%+v\n%+v", parsed, DefaultSnakeConfig())
	}
	if err := parsed.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadSnakeCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	data := []byte("board:\n  size: 20\neffects:\n  double_score: 10s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSnake(path)
	if err != nil {
		t.Fatalf("LoadSnake() failed: %v", err)
	}
	if cfg.Board.Size != 20 {
		t.Errorf("Board.Size = %d, expected 20", cfg.Board.Size)
	}
	if cfg.Effects.DoubleScore.Std() != 10*time.Second {
		t.Errorf("DoubleScore = %s, expected 10s", cfg.Effects.DoubleScore.Std())
	}
	// Untouched keys keep their defaults
	if cfg.Speed.TickInterval.Std() != 200*time.Millisecond {
		t.Errorf("TickInterval = %s, expected default 200ms", cfg.Speed.TickInterval.Std())
	}
	if cfg.Obstacles.Max != 5 {
		t.Errorf("Obstacles.Max = %d, expected default 5", cfg.Obstacles.Max)
	}
}

func TestLoadSnakeMissingCustomPath(t *testing.T) {
	_, err := LoadSnake(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadSnakeRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("board:\n  size: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadSnake(path)
	if err == nil || !strings.Contains(err.Error(), "board.size") {
		t.Fatalf("expected board.size validation error, got %v", err)
	}
}

func TestLoadSnakeBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("speed:\n  tick_interval: fast\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnake(path); err == nil {
		t.Fatal("expected parse error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SnakeConfig)
		errSub string
	}{
		{"defaults", func(*SnakeConfig) {}, ""},
		{"tiny board", func(c *SnakeConfig) { c.Board.Size = 3 }, "board.size"},
		{"zero interval", func(c *SnakeConfig) { c.Speed.TickInterval = 0 }, "tick_interval"},
		{"initial above max", func(c *SnakeConfig) { c.Speed.Initial = 9 }, "speed.initial"},
		{"zero weights", func(c *SnakeConfig) { c.Food.Weights = FoodWeights{} }, "all be zero"},
		{"negative weight", func(c *SnakeConfig) { c.Food.Weights.SpeedUp = -1 }, "negative"},
		{"no obstacles", func(c *SnakeConfig) { c.Obstacles.Max = 0 }, "obstacles.max"},
		{"obstacles overflow", func(c *SnakeConfig) { c.Board.Size = 5; c.Obstacles.Max = 22 }, "does not fit"},
		{"bad theme", func(c *SnakeConfig) { c.Display.Theme = "neon" }, "display.theme"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSnakeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errSub == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, expected nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errSub) {
				t.Fatalf("Validate() = %v, expected error containing %q", err, tc.errSub)
			}
		})
	}
}

func TestMarshalSnakeRoundTripsDurationsAsStrings(t *testing.T) {
	data, err := MarshalSnake(DefaultSnakeConfig())
	if err != nil {
		t.Fatalf("MarshalSnake() failed: %v", err)
	}
	if !strings.Contains(string(data), "death_animation: 1.5s") {
		t.Errorf("durations should be written as strings, got:\n%s", data)
	}
}

func TestApplySnakePreset(t *testing.T) {
	easy := DefaultSnakeConfig()
	ApplySnakePreset(&easy, DifficultyEasy)
	if easy.Speed.Initial >= 1.0 || easy.Obstacles.Max > 3 || easy.Obstacles.SpawnEvery != 0 {
		t.Errorf("easy preset not applied: %+v", easy)
	}

	hard := DefaultSnakeConfig()
	ApplySnakePreset(&hard, DifficultyHard)
	if hard.Speed.Initial <= 1.0 || hard.Obstacles.Max < 8 {
		t.Errorf("hard preset not applied: %+v", hard)
	}

	fixed := DefaultSnakeConfig()
	ApplySnakePreset(&fixed, DifficultyFixed)
	if fixed.Speed.RegularEvery != 0 || fixed.Obstacles.SpawnEvery != 0 {
		t.Errorf("fixed preset should disable progression: %+v", fixed)
	}

	for _, p := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed} {
		cfg := DefaultSnakeConfig()
		ApplySnakePreset(&cfg, p)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s produced invalid config: %v", p, err)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	if p, err := ParseDifficulty(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParseDifficulty(\"\") = %q, %v", p, err)
	}
	if p, err := ParseDifficulty("hard"); err != nil || p != DifficultyHard {
		t.Errorf("ParseDifficulty(hard) = %q, %v", p, err)
	}
	if _, err := ParseDifficulty("insane"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
