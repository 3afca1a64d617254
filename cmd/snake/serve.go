package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snake SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game session with the menu.
Scores are stored per-server (all users share the same leaderboard),
and the SSH user name is offered as the player name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snake/host_key

Examples:
  snake serve                           # Listen on :23234 with auto-generated key
  snake serve --ssh :2222               # Listen on port 2222
  snake serve --host-key ./my_host_key  # Use specific host key
  snake serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	game, preset, err := loadGameConfig()
	if err != nil {
		return err
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.BoardLimit = flagTop
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Game = game
	cfg.Difficulty = preset
	if flagDebug {
		cfg.Level = log.DebugLevel
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting snake SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
