// Package mcp exposes Gobblet to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST API
// (see package api), and the JSON response is rendered as text an agent can
// read. The server therefore holds no game state of its own and several
// agents can share sessions with browsers watching over WebSocket.
//
// Tools:
//   - create_session, get_session, list_sessions
//   - game_state: board grid, reserves, turn and hex snapshot
//   - move: {"reserve": 0-5} or {"from": {"x","y"}} plus {"to": {"x","y"}}
//   - bulk_move: a list of moves played in order
//   - reset_game, move_history, list_configs
//   - game_instructions: the full rules
//   - describe_cell: every piece stacked on one cell
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
