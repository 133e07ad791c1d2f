// Package audit provides the append-only PostgreSQL repository for the
// activity log.
package audit

import (
	"context"

	"github.com/dvergara-cl/refdata/internal/server/models"
)

type Repository interface {
	// Append inserts a new entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *models.AuditEntry) error

	// ListAll returns every entry ordered by creation time, oldest first.
	// Used by the export service.
	ListAll(ctx context.Context) ([]*models.AuditEntry, error)
}
