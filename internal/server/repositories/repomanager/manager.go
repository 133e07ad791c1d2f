// Package repomanager wires concrete repositories to a database handle and
// applies schema migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dvergara-cl/refdata/internal/dbx"
	"github.com/dvergara-cl/refdata/internal/server/repositories/audit"
	"github.com/dvergara-cl/refdata/internal/server/repositories/communes"
	"github.com/dvergara-cl/refdata/internal/server/repositories/customers"
	"github.com/dvergara-cl/refdata/internal/server/repositories/regions"
	"github.com/dvergara-cl/refdata/internal/server/repositories/sessiontokens"
	"github.com/dvergara-cl/refdata/internal/server/repositories/users"
)

// RepositoryManager produces repositories bound to the given handle, which
// may be a *sql.DB or an open transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	SessionTokens(db dbx.DBTX) sessiontokens.Repository
	Audit(db dbx.DBTX) audit.Repository
	Regions(db dbx.DBTX) regions.Repository
	Communes(db dbx.DBTX) communes.Repository
	Customers(db dbx.DBTX) customers.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
