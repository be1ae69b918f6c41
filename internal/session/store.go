package session

import "time"

// Store maps user identifiers to their active session. A session exists in
// the store if and only if a conversation is in progress for that user;
// there is at most one per user.
type Store interface {
	// Create installs a fresh Collecting session, replacing any existing one.
	Create(userID int64) *Session
	// Get returns a copy of the user's session, if present.
	Get(userID int64) (*Session, bool)
	// Replace swaps in a new session value for the user. A nil session
	// deletes the record.
	Replace(userID int64, s *Session)
	// Delete removes the user's session, if present.
	Delete(userID int64)
	// Len reports the number of active sessions.
	Len() int
	// Stale lists users whose sessions were last touched before cutoff.
	Stale(cutoff time.Time) []int64
}
