// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account able to authenticate against the service.
// PasswordHash holds a bcrypt hash and is never serialized in responses.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
