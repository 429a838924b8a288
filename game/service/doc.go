// Package service provides the business logic layer for the robot grid simulator.
//
// The service package implements:
//   - Multi-session robot management
//   - Command parsing and execution
//   - Preset loading through a ConfigManager
//   - Command history tracking
//
// Core Interfaces:
//
// SimulationService is the main service interface used by every transport.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads and stores robot presets.
// Recorder receives command outcomes for metrics.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP and the
// interactive console) and the engine. Each session owns its own Robot, and
// all access to a session's robot is serialized by the service.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	svc := service.NewSimulationService(sessionMgr, configMgr)
//
//	info, err := svc.CreateSession(ctx, "demo")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cmd, _ := service.NewCommand("diagonal", []string{"NE"})
//	result, err := svc.Execute(ctx, info.ID, cmd)
//
// Rule violations such as hitting the boundary or running out of battery are
// not Go errors here: Execute returns a CommandResult with Success false and
// an ErrorCode taken from the engine.
package service
