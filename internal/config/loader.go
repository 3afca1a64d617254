package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSnake loads the snake configuration and validates it.
// Search order: customPath -> ~/.snake/configs/snake.yaml -> ./configs/snake.yaml -> embedded default.
// Files are decoded over the defaults, so a file only needs the keys it changes.
func LoadSnake(customPath string) (SnakeConfig, error) {
	cfg, err := loadSnake(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadSnake(customPath string) (SnakeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultSnakeConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseSnake(data)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("snake.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseSnake(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "snake.yaml")); err == nil {
		if cfg, err := ParseSnake(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseSnake(defaultSnakeYAML)
	if err != nil {
		return DefaultSnakeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseSnake decodes YAML on top of DefaultSnakeConfig. It does not validate.
func ParseSnake(data []byte) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultSnakeConfig(), err
	}
	return cfg, nil
}

// MarshalSnake renders a config as YAML.
func MarshalSnake(cfg SnakeConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode snake config: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", "configs", filename)
}
