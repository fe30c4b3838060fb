// Package websocket streams a running world to browsers and other clients.
//
// The Hub plugs into the engine as a render collaborator. Every cell drawn
// during a tick is collected and sent as a single "frame" message when the
// tick flushes, so clients only ever receive squares that changed. A new
// client first receives a "snapshot" message holding every cell.
//
// Message Protocol:
//
//   - Outgoing: {"event": "snapshot"|"frame", "frame": {"tick": 3, "cells": [...]}}
//     and {"event": "<name>", "data": ...} for custom events and errors.
//     Messages queued together are written in one WebSocket message,
//     separated by newlines.
//   - Incoming: {"command": "snapshot"} is answered by the hub itself; any
//     other command, e.g. {"command": "steer", "direction": "up"}, is handed
//     to the CommandHandler.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.Options{Snapshot: game.Snapshot})
//	go hub.Run(ctx)
//	world.SetRenderer(hub)
//	http.Handle("/ws", hub)
package websocket
