// Package config loads the genesis data a world is built from.
//
// Genesis files live in a directory and may be written as JSON, YAML or
// TOML; the format is picked from the file extension. A file describes the
// grid size, an optional character layout with its legend, explicit square
// and entity placements, an optional player and the loop settings:
//
//	name: arena
//	width: 8
//	height: 5
//	loop_period: 200ms
//	policy: player-first
//	layout:
//	  - "########"
//	  - "#......#"
//	  - "#..*...#"
//	  - "#......#"
//	  - "########"
//	entities:
//	  - {x: 2, y: 1, type: wanderer}
//	player: {x: 5, y: 3, type: player}
//
// Type names are not checked here; the catalog resolves them against its
// registered factories. Settings that tune a run rather than shape the world
// (loop_period, policy, seed, max_resolution_rounds) can be overridden with
// WANDRIAN_* environment variables.
//
// Viper folds map keys to lower case, so legend characters and entity params
// are case-insensitive.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	data, err := manager.Load("arena")
//	infos, err := manager.List()
package config
