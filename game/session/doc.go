// Package session provides in-memory session storage for the robot grid
// simulator.
//
// Manager is a thread-safe map of service.Session values keyed by a
// case-insensitive ID. Each session owns an independent engine.Robot built
// from the preset it was created with, so commands against one session never
// affect another.
//
// Session IDs are either caller supplied or generated: eight hex characters
// taken from a random UUID.
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Sessions are not persisted. CleanupExpiredSessions drops sessions that
// have been idle longer than a given age.
package session
