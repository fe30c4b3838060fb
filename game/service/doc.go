// Package service provides the control layer between the transports and a
// running game.
//
// The service package implements:
//   - Status and world views of the running game
//   - Player steering from direction names
//   - Pause, single steps and ending the game
//   - Listing and loading genesis files
//
// Architecture:
//
// Transports (the REST API and WebSocket commands) call GameService instead
// of the session directly, so they share one set of argument checks and
// error values. The service holds no game state of its own.
//
// Usage:
//
//	svc := service.NewGameService(game, steering, configs)
//
//	dir, err := svc.Steer(ctx, "left")
//	result, err := svc.Step(ctx)
package service
