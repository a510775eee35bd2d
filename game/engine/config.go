package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Messages are the texts reported back to players after each operation
type Messages struct {
	Welcome     string `json:"welcome"`
	Drew        string `json:"drew"`
	Recycled    string `json:"recycled"`
	StockEmpty  string `json:"stock_empty"`
	Placed      string `json:"placed"`
	Revealed    string `json:"revealed"`
	Discarded   string `json:"discarded"`
	IllegalMove string `json:"illegal_move"`
}

// GameConfig represents a game variant loaded from JSON
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DrawCount   int      `json:"draw_count"`
	Messages    Messages `json:"messages"`
}

// DefaultConfig returns the classic draw-three configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "klondike",
		Description: "Classic Klondike, three cards per draw",
		DrawCount:   DefaultDrawCount,
		Messages: Messages{
			Welcome:     "New deal. Build the foundations from Ace to King.",
			Drew:        "Drew %d card(s) from the stock",
			Recycled:    "Waste turned back into the stock",
			StockEmpty:  "Stock and waste are both empty",
			Placed:      "Moved %s",
			Revealed:    "Revealed %s",
			Discarded:   "Discarded %d card(s) from the waste",
			IllegalMove: "That move is not allowed",
		},
	}
}

// EffectiveDrawCount returns the configured draw count, defaulting to three
func (c *GameConfig) EffectiveDrawCount() int {
	if c == nil || c.DrawCount == 0 {
		return DefaultDrawCount
	}
	return c.DrawCount
}

// ValidateGameConfig validates a game configuration
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.DrawCount != 0 && (config.DrawCount < MinDrawCount || config.DrawCount > MaxDrawCount) {
		return fmt.Errorf("config validation: draw_count must be between %d and %d, got %d",
			MinDrawCount, MaxDrawCount, config.DrawCount)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.IllegalMove == "" {
		return fmt.Errorf("config validation: messages.illegal_move is required")
	}

	// Format strings take exactly one argument
	for key, msg := range map[string]string{
		"drew":      config.Messages.Drew,
		"discarded": config.Messages.Discarded,
	} {
		if msg != "" && !strings.Contains(msg, "%d") {
			return fmt.Errorf("config validation: messages.%s must contain %%d for the card count", key)
		}
	}
	for key, msg := range map[string]string{
		"placed":   config.Messages.Placed,
		"revealed": config.Messages.Revealed,
	} {
		if msg != "" && !strings.Contains(msg, "%s") {
			return fmt.Errorf("config validation: messages.%s must contain %%s for the card", key)
		}
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
