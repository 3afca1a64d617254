package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the snake configuration as YAML after applying the config
file and the difficulty preset. The output is a valid snake.yaml.

Config lookup order:
  --config <path>, then ~/.snake/configs/snake.yaml, then built-in defaults

Examples:
  snake config
  snake config --difficulty hard > ~/.snake/configs/snake.yaml`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		game, preset, err := loadGameConfig()
		if err != nil {
			return err
		}
		config.ApplySnakePreset(&game, preset)

		data, err := config.MarshalSnake(game)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}
