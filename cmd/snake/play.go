package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game directly",
	Long: `Start a snake game without going through the menu.

Controls:
  Arrows/WASD/HJKL  - Steer
  P/Space           - Pause and resume
  R                 - Restart
  ?                 - Show instructions
  Enter             - Confirm
  Esc/B             - Back to menu
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower start, few obstacles, longer double score
  normal - The configured game
  hard   - Faster start, more obstacles spawning every 20 ticks
  fixed  - No progression, speed only changes through special food

Examples:
  snake play
  snake play --difficulty hard
  snake play --seed 42
  snake play --config ./my-snake.yaml`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runApp(tui.ScreenGame)
	},
}
