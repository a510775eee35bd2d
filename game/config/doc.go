// Package config provides configuration management for the Klondike server.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory. Each
// file names a variant, its draw count (1 to 3 cards per draw) and the messages
// reported to players after each move.
//
// Available Configurations:
//   - klondike: the classic game, three cards per draw (the default)
//   - easy: one card per draw
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		klog.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When klondike.json is missing the first valid file becomes the default, and
// an empty directory falls back to the built-in classic rules.
package config
