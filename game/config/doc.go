// Package config provides configuration management for Gobblet games.
//
// A configuration names the color that moves first, the piece sizes held in
// each of the six reserve stacks, and the messages shown to players. Files
// live in a single directory and may be JSON (.json) or YAML (.yaml, .yml).
//
// Available Configurations:
//
//   - classic: Black first, Black reserves in runs of four, White staggered
//   - mirrored: White first, both colors keep runs of four
//   - tiered: every reserve stack mixes small, medium and large pieces
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("tiered")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Every loaded or saved configuration goes through engine.ValidateGameConfig,
// so a layout that is missing a piece or carries a duplicate is rejected with
// ErrInvalidConfig before any game is built from it.
package config
