// Package sessiontokens provides a PostgreSQL-backed repository for the
// opaque bearer tokens issued at login.
package sessiontokens

import (
	"context"
	"time"

	"github.com/dvergara-cl/refdata/internal/server/models"
)

type Repository interface {
	// Create inserts a token for userID expiring at expiresAt.
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// FindValid returns the token row whose stored value matches exactly
	// and whose expiry is after now, or common.ErrorNotFound.
	FindValid(ctx context.Context, token string, now time.Time) (*models.SessionToken, error)

	// DeleteAllForUser removes every token belonging to userID and
	// returns the number of rows deleted. Deleting zero rows is not an
	// error (logout is idempotent).
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
}
