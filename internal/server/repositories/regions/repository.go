// Package regions provides the PostgreSQL repository for the regions table.
package regions

import (
	"context"

	"github.com/dvergara-cl/refdata/internal/server/models"
)

type Repository interface {
	// List returns one page of regions plus the total row count.
	List(ctx context.Context, limit, offset int) ([]*models.Region, int64, error)

	// Get returns a region by id, or common.ErrorNotFound.
	Get(ctx context.Context, id int64) (*models.Region, error)

	// Create inserts a region and returns it with the assigned id.
	Create(ctx context.Context, region *models.Region) (*models.Region, error)

	// Update applies the non-nil fields to the region with the given id.
	// Returns common.ErrorNotFound when the id does not exist.
	Update(ctx context.Context, id int64, description, status *string) error

	// Delete removes a region. Returns common.ErrorNotFound when the id
	// does not exist.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether a region with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)
}
