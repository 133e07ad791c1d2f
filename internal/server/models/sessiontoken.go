package models

import "time"

// SessionToken is an opaque bearer credential persisted per login.
// A token is valid while the current time is before ExpiresAt. A user may
// hold any number of concurrent tokens; logout deletes them all at once.
type SessionToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
