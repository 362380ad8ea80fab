// Package websocket pushes live game updates to browser and bot clients.
//
// A Hub keeps the connections watching each session. Clients connect with
// ?session=<id> and receive JSON frames:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// The first frame after connecting carries the current state. Every accepted
// or rejected move, bulk move and reset is followed by another state_update,
// and deleting a session sends session_deleted. Clients that cannot keep up
// with their send buffer are disconnected.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
