package services

import (
	"context"
	"database/sql"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/repomanager"
)

// AuditService appends immutable activity-log entries. Writes are
// synchronous; the caller decides whether a failed write is fatal (for the
// recorder middleware it never is).
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAuditService(db *sql.DB, m repomanager.RepositoryManager) *AuditService {
	return &AuditService{db: db, repomanager: m}
}

// Append persists one entry. Entries are never mutated or deleted.
func (s *AuditService) Append(ctx context.Context, entry *models.AuditEntry) error {
	if err := s.repomanager.Audit(s.db).Append(ctx, entry); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ListAll returns the full log, oldest first. Used by the exporter.
func (s *AuditService) ListAll(ctx context.Context) ([]*models.AuditEntry, error) {
	entries, err := s.repomanager.Audit(s.db).ListAll(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return entries, nil
}
