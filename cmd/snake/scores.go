package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagScoresTUI   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the leaderboard.

Examples:
  snake scores
  snake scores --tui
  snake scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Show the interactive leaderboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every recorded score")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagScoresClear {
		if err := store.ClearScores(ctx); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Println("Leaderboard cleared.")
		return nil
	}

	if flagScoresTUI {
		game, _, err := loadGameConfig()
		if err != nil {
			return err
		}
		return tui.RunScoreboard(store, tui.ThemeByName(game.Display.Theme))
	}

	scores, err := store.TopScores(ctx, store.Limit())
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - Snake")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-7s  %-6s  %s\n", "Rank", "Player", "Score", "Speed", "Date")
	fmt.Printf("  %-4s  %-16s  %-7s  %-6s  %s\n", "----", "------", "-----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-7d  %-6s  %s\n",
			i+1, entry.PlayerName, entry.Score,
			fmt.Sprintf("%.2fx", entry.SpeedFactor),
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.Stats(ctx); err == nil {
		fmt.Printf("Best: %d  Average: %.0f  Top speed: %.2fx\n", stats.BestScore, stats.AverageScore, stats.TopSpeed)
	}
	return nil
}
