// Package websocket pushes robot state to browsers over WebSocket.
//
// A single Hub goroutine owns the map of subscribers. Clients subscribe to
// one session with GET /ws?session=<id>; the HTTP API calls BroadcastState
// after every command or reset so every open page of that session redraws.
// Frames are JSON:
//
//	{"session_id": "3fa9c2d1", "event": "state_update",
//	 "state": {"position": {"x": 0, "y": 1}, "direction": "NORTH", ...}}
//
// The socket is push-only. Commands go through the REST API.
package websocket
