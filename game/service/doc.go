// Package service provides the business logic layer for Gobblet game sessions.
//
// GameService sits between the transports (HTTP, WebSocket, MCP) and the
// engine. It resolves sessions, applies moves, turns engine rejections into
// stable codes (see RejectionCode) and persists the session after every
// change. SessionManager and ConfigManager are the storage seams it depends
// on.
//
// Usage:
//
//	sessions := session.NewManager(logger)
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, configs, logger)
//
//	info, err := svc.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.Move(ctx, info.ID, engine.ReserveMove(2, engine.Point{X: 1, Y: 1}), false)
//
// A rejected move is not a Go error: Move returns a MoveResult with Success
// false and RejectionCode set. Errors are reserved for missing sessions and
// storage failures.
package service
