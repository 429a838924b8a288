// Package mcp exposes the robot grid simulator to MCP clients.
//
// Client is a thin proxy: every tool call becomes a request against the REST
// API, so MCP agents, browsers and the console all share the same sessions.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - robot_state, robot_command, display_grid, reset_robot
//   - command_history, list_configs
//   - describe_cell, simulator_instructions
//
// The server returned by GetMCPServer can be served over stdio with
// server.ServeStdio or mounted on an HTTP route with
// server.NewStreamableHTTPServer.
package mcp
