package repomanager

import (
	"context"
	"database/sql"

	"github.com/dvergara-cl/refdata/internal/dbx"
	"github.com/dvergara-cl/refdata/internal/server/migrations"
	"github.com/dvergara-cl/refdata/internal/server/repositories/audit"
	"github.com/dvergara-cl/refdata/internal/server/repositories/communes"
	"github.com/dvergara-cl/refdata/internal/server/repositories/customers"
	"github.com/dvergara-cl/refdata/internal/server/repositories/regions"
	"github.com/dvergara-cl/refdata/internal/server/repositories/sessiontokens"
	"github.com/dvergara-cl/refdata/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) SessionTokens(db dbx.DBTX) sessiontokens.Repository {
	return sessiontokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Regions(db dbx.DBTX) regions.Repository {
	return regions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Communes(db dbx.DBTX) communes.Repository {
	return communes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Customers(db dbx.DBTX) customers.Repository {
	return customers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
