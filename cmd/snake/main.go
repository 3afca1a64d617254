// snake is a terminal snake game with a persistent leaderboard.
//
// Usage:
//
//	snake                    - Start menu
//	snake play               - Start a game directly
//	snake scores             - Show the leaderboard
//	snake serve              - Start SSH server for remote play
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.snake/scores.db)
//	--config <path>      - Path to a custom snake.yaml
//	--difficulty <name>  - easy, normal, hard or fixed
//	--top <n>            - Number of records the leaderboard keeps
//	--debug              - Write debug logs to ~/.snake/snake.log
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagTop        int
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is a terminal snake game with special food, obstacles and a
shared leaderboard. The board wraps around at its edges.

Available commands:
  play     - Start a game directly
  scores   - View the leaderboard
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Examples:
  snake
  snake play --difficulty hard
  snake scores
  snake serve --ssh :2222`,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runApp(tui.ScreenMenu)
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snake/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom snake config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().IntVar(&flagTop, "top", storage.DefaultLimit, "Number of records the leaderboard keeps")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write debug logs to ~/.snake/snake.log")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// runtimeConfig reads the terminal size and the global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.Seed = flagSeed
	cfg.Debug = flagDebug
	return cfg
}

// loadGameConfig loads the snake config and validates the difficulty flag.
func loadGameConfig() (config.SnakeConfig, config.DifficultyPreset, error) {
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return config.SnakeConfig{}, "", err
	}
	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		return config.SnakeConfig{}, "", err
	}
	return cfg, preset, nil
}

// newLogger returns a file logger in debug mode. The terminal belongs to
// the game, so nothing is logged otherwise.
func newLogger(rc core.RuntimeConfig) (*log.Logger, func(), error) {
	if !rc.Debug {
		return log.New(io.Discard), func() {}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	path := filepath.Join(home, ".snake", "snake.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

// openStore opens the scores database sized by --top.
func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}
	store.SetLimit(flagTop)
	return store, nil
}

// runApp starts the interactive front end on the given screen.
func runApp(start tui.Screen) error {
	game, preset, err := loadGameConfig()
	if err != nil {
		return err
	}

	rc := runtimeConfig()
	logger, closeLog, err := newLogger(rc)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	} else {
		defer store.Close()
	}

	opts := tui.AppOptions{
		Game:       game,
		Difficulty: preset,
		Store:      store,
		Seed:       rc.Seed,
		Logger:     logger,
		PlayerName: os.Getenv("USER"),
		Start:      start,
	}
	return tui.Run(opts, rc.ScreenW, rc.ScreenH)
}
