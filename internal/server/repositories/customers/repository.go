// Package customers provides the PostgreSQL repository for the customers table.
package customers

import (
	"context"

	"github.com/dvergara-cl/refdata/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*models.Customer, int64, error)
	Get(ctx context.Context, id int64) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)

	// Update replaces every mutable field of the customer with the given
	// id (the client always sends the full payload on update). Deletion
	// is an Update to status "trash"; rows are never removed.
	Update(ctx context.Context, customer *models.Customer) error
}
