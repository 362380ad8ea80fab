// Package session keeps the live Gobblet games of the server.
//
// A Manager maps short session IDs to a service.Session, which owns one
// engine.GameEngine plus its config and access times. Generated IDs are four
// lower-case hex characters; lookups ignore case so "A1B2" and "a1b2" name the
// same game. All Manager methods are safe for concurrent use, but a session's
// engine is not: callers serialize moves on a session (the service layer
// does this).
//
//	manager := session.NewManager(logger)
//	sess, err := manager.Create("", config)
//	if err != nil {
//		return err
//	}
//	err = sess.Engine.Move(engine.ReserveRef(2), engine.Point{X: 1, Y: 1})
//
// Persistence:
//
// NewManagerWithPersistence writes every created or touched session through to
// a SessionPersistence and reads sessions missing from memory back from it.
// FilePersistence keeps one JSON file per session; BadgerPersistence keeps the
// same JSON in a BadgerDB store under "session/<id>". Both store the config ID
// and the archived board, and loading rebuilds the engine from the config before
// restoring the board, so a tampered snapshot fails its integrity check instead
// of producing an illegal position.
//
// Expiry only drops the in-memory copy; a persisted session comes back on the
// next Get.
package session
