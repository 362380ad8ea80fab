// Package api provides the HTTP REST API for Gobblet sessions.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                {"config_id": "classic"} creates a session
//   - GET    /api/sessions                ?sort=created|accessed&order=asc|desc&limit=N
//   - GET    /api/sessions/unified        ?sessionIds=a,b or ?configName=x, with a win summary
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Game Operations:
//   - GET  /api/sessions/{id}/state      full GameState including hex_snapshot
//   - GET  /api/sessions/{id}/board      plain-text board
//   - POST /api/sessions/{id}/move       {"reserve": 2, "to": {"x": 1, "y": 1}}
//     or {"from": {"x": 1, "y": 1}, "to": {"x": 2, "y": 2}}, optional "reset": true
//   - POST /api/sessions/{id}/bulk-move  {"moves": [...], "reset": false}
//   - POST /api/sessions/{id}/reset
//   - GET  /api/sessions/{id}/history    ?page=1&limit=20&order=desc
//
// Configuration:
//   - GET  /api/configs
//   - GET  /api/configs/{name}
//   - POST /api/configs                  a GameConfig plus optional "config_id"
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}               WebSocket state updates
//
// A rejected move is reported with status 200 and "success": false plus a
// "rejection_code" such as not_your_turn or does_not_fit. Errors use
//
//	{"error": "message"}
//
// with 400 for malformed requests, 404 for unknown sessions or configs and
// 500 otherwise.
package api
