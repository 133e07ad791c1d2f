package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/repomanager"
)

// PageSize is the fixed page length of every reference-data listing.
const PageSize = 15

// RegionService implements CRUD over the regions table.
type RegionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRegionService(db *sql.DB, m repomanager.RepositoryManager) *RegionService {
	return &RegionService{db: db, repomanager: m}
}

func (s *RegionService) List(ctx context.Context, page int) ([]*models.Region, int64, error) {
	if page < 1 {
		page = 1
	}
	regions, total, err := s.repomanager.Regions(s.db).List(ctx, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, 0, common.ErrorInternal
	}
	return regions, total, nil
}

func (s *RegionService) Create(ctx context.Context, description, status string) (*models.Region, error) {
	v := &validator{}
	if v.required("description", description) {
		v.maxLen("description", description, 90)
	}
	if v.required("status", status) && !models.ValidStatus(status) {
		v.fail("The selected status is invalid.")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	region, err := s.repomanager.Regions(s.db).Create(ctx, &models.Region{Description: description, Status: status})
	if err != nil {
		return nil, common.ErrorInternal
	}
	return region, nil
}

func (s *RegionService) Update(ctx context.Context, id int64, description, status *string) error {
	v := &validator{}
	if description != nil {
		v.maxLen("description", *description, 90)
	}
	if status != nil && !models.ValidStatus(*status) {
		v.fail("The selected status is invalid.")
	}
	if err := v.err(); err != nil {
		return err
	}

	err := s.repomanager.Regions(s.db).Update(ctx, id, description, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// Delete removes the region and returns the deleted row so callers can
// include its description in the audit detail.
func (s *RegionService) Delete(ctx context.Context, id int64) (*models.Region, error) {
	repo := s.repomanager.Regions(s.db)

	region, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return region, nil
}
