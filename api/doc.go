// Package api provides HTTP REST API handlers for controlling a running world.
//
// The api package implements:
//   - Status and world views
//   - Player steering, pause, single steps and ending the game
//   - Genesis file listing
//   - Mounting of the WebSocket hub and the MCP endpoint
//
// Endpoints:
//
// Game State:
//   - GET /api/status - Run id, state, tick, entity count and last tick report
//   - GET /api/world - Every cell as JSON; ?format=text returns the text drawing
//   - GET /api/world/{x}/{y} - A single cell
//
// Game Operations:
//   - POST /api/steer - {"direction": "up"} sets the player's next step
//   - POST /api/pause - Toggle between running and paused
//   - POST /api/step - Run one tick of a paused game
//   - POST /api/end - {"reason": "..."} ends the game
//
// Configuration:
//   - GET /api/configs - List genesis files
//   - GET /api/configs/{name} - Genesis data of one file
//
// Errors are returned as {"error": "..."} with 400 for bad arguments, 404
// for missing genesis files or players and 409 when the game state does not
// allow the operation.
//
// Usage:
//
//	svc := service.NewGameService(game, steering, configs)
//	server := api.NewServer(api.Options{Service: svc, WebSocket: hub})
//	http.ListenAndServe(":8080", server)
package api
