// Package service provides the business logic layer for the Klondike server.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration lookup and saving
//   - Move validation, application and reporting
//   - Seeded deals and re-deals
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// rules engine. Each session owns its own engine; the service serializes every
// engine call, since engines are not safe for concurrent use.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "klondike", nil)
//	if err != nil {
//		klog.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, engine.Move{Action: engine.ActionDraw})
//
// Errors:
//
// Rejected moves are not errors: Move returns a MoveResult with Success false
// and the configured illegal move message. Errors are returned for unknown
// sessions (ErrSessionNotFound), unknown configurations (ErrConfigNotFound)
// and malformed moves (engine.ErrInvalidMove).
package service
