// Package engine provides the core simulation for the wandrian grid world.
//
// The engine package implements:
//   - A fixed-size grid of squares addressed by Position
//   - Entity admission, removal and movement with occupancy bookkeeping
//   - The per-tick pipeline: intent collection, collision grouping,
//     policy-driven collision resolution and conflict-free move commits
//   - Dirty-square tracking handed to a Renderer once per tick
//   - Structured diagnostics for every recoverable failure
//
// Core Types:
//
// World owns the grid and every entity placed on it. Entities decide where
// they want to go through their Behavior, which receives a read-only View of
// the world. CollisionPolicy is supplied by the game and decides how a group
// of entities that target the same position is split back up.
//
// Usage:
//
//	world, err := engine.NewWorld(10, 10,
//		engine.WithCollisionPolicy(policy.FirstWins),
//		engine.WithRenderer(renderer),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := world.Genesis(genesis); err != nil {
//		log.Fatal(err)
//	}
//
//	report := world.Step()
//
// Tick Pipeline:
//
// Every occupied square is visited in grid order and its entity asked for a
// target. Targets on blocking squares are turned into "stay" intents. Intents
// are grouped by target; any group holding more than one entity (or a single
// entity on a blocking square) is handed to the collision policy until no
// collision remains or the round cap is hit. The surviving groups are then
// committed in two phases so chains and swaps never overwrite an occupant.
// Nothing inside a tick panics or returns early on bad input: problems are
// sent to the configured Reporter and the tick carries on.
package engine
