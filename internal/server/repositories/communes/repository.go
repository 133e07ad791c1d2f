// Package communes provides the PostgreSQL repository for the communes table.
package communes

import (
	"context"

	"github.com/dvergara-cl/refdata/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*models.Commune, int64, error)
	Get(ctx context.Context, id int64) (*models.Commune, error)
	Create(ctx context.Context, commune *models.Commune) (*models.Commune, error)
	Update(ctx context.Context, id int64, regionID *int64, description, status *string) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
