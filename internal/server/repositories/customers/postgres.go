package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/dbx"
	"github.com/dvergara-cl/refdata/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, dni, id_reg, id_com, email, name, last_name, address, date_reg, status, created_at, updated_at`

func scanCustomer(row interface{ Scan(dest ...any) error }) (*models.Customer, error) {
	c := &models.Customer{}
	err := row.Scan(&c.ID, &c.DNI, &c.RegionID, &c.CommuneID, &c.Email, &c.Name,
		&c.LastName, &c.Address, &c.DateReg, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Customer, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, selectColumns)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return customers, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, selectColumns)
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	query := `
		INSERT INTO customers (dni, id_reg, id_com, email, name, last_name, address, date_reg, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		customer.DNI, customer.RegionID, customer.CommuneID, customer.Email, customer.Name,
		customer.LastName, customer.Address, customer.DateReg, customer.Status).
		Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return customer, nil
}

func (r *PostgresRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET dni = $2, id_reg = $3, id_com = $4, email = $5, name = $6,
		    last_name = $7, address = $8, date_reg = $9, status = $10,
		    updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		customer.ID, customer.DNI, customer.RegionID, customer.CommuneID, customer.Email,
		customer.Name, customer.LastName, customer.Address, customer.DateReg, customer.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
