// Package api provides the HTTP REST API for the robot grid simulator.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session, optionally {"config_id": "demo"}
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Robot:
//   - GET /api/sessions/{id}/state - Current robot snapshot
//   - GET /api/sessions/{id}/grid - Text rendering of the grid
//   - POST /api/sessions/{id}/command - Execute a command
//   - POST /api/sessions/{id}/reset - Rebuild the robot from its preset
//   - GET /api/sessions/{id}/history - Paginated command history
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get one preset
//   - POST /api/configs - Save a preset
//
// Commands are posted as JSON; args may be strings or numbers:
//
//	{"command": "diagonal", "args": ["NE"]}
//	{"command": "add_obstacle", "args": [2, 3]}
//
// A command that breaks a movement rule still answers 200 with
// "success": false and an "error_code" such as "boundary" or "battery".
// Malformed commands answer 400 and unknown sessions 404.
//
// /ws?session={id} upgrades to a websocket that pushes state updates for the
// session, /metrics serves Prometheus metrics when configured and / serves a
// small browser client.
package api
