// Package session provides session management for the Klondike server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Session ID generation
//   - Seeded deals per session
//   - JSON file persistence
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session owns its own rules engine, seeded so its deal can be reproduced.
//
// Session Identifiers:
//
// Generated IDs are the first 8 hex characters of a random UUID. Lookups are
// case-insensitive. Caller-chosen IDs are limited to letters, digits, '-' and
// '_' so they are safe as file names.
//
// Persistence:
//
// FilePersistence writes one JSON file per session holding the config ID, the
// seed and the full table. Loading rebuilds the engine from the stored table,
// which is rejected if it breaks any card invariant.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configManager)
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", config, nil)
//	if err != nil {
//		klog.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
