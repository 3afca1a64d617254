package core

// RuntimeConfig contains platform settings passed to a game session at start.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for deterministic gameplay
	Debug   bool  // Enables debug logging of the simulation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
	}
}
