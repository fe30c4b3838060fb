// Package mcp exposes a running game to AI agents over the Model Context
// Protocol.
//
// MCP Tools:
//   - game_status: run id, state, tick and the last tick report
//   - world_view: ASCII grid, or every cell as JSON
//   - describe_cell: one square and its occupant
//   - steer: next direction for the player
//   - toggle_pause, step: pause the loop and advance it by hand
//   - end_game: finish the run
//
// Transport Modes:
//   - Stdio: ServeStdio for local MCP clients
//   - HTTP: HTTPHandler answers one JSON-RPC request per POST
//
// Usage:
//
//	srv := mcp.NewServer(game, steering, logger.Component("mcp"))
//	if err := srv.ServeStdio(); err != nil {
//		return err
//	}
package mcp
