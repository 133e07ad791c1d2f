package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/repomanager"
)

// CommuneService implements CRUD over the communes table. Every commune
// belongs to a region, so writes verify the referenced region exists.
type CommuneService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommuneService(db *sql.DB, m repomanager.RepositoryManager) *CommuneService {
	return &CommuneService{db: db, repomanager: m}
}

func (s *CommuneService) List(ctx context.Context, page int) ([]*models.Commune, int64, error) {
	if page < 1 {
		page = 1
	}
	communes, total, err := s.repomanager.Communes(s.db).List(ctx, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, 0, common.ErrorInternal
	}
	return communes, total, nil
}

func (s *CommuneService) regionExists(ctx context.Context, v *validator, regionID int64) {
	ok, err := s.repomanager.Regions(s.db).Exists(ctx, regionID)
	if err != nil || !ok {
		v.fail("The selected id reg is invalid.")
	}
}

func (s *CommuneService) Create(ctx context.Context, regionID int64, description, status string) (*models.Commune, error) {
	v := &validator{}
	if regionID == 0 {
		v.fail("The id reg field is required.")
	} else {
		s.regionExists(ctx, v, regionID)
	}
	if v.required("description", description) {
		v.maxLen("description", description, 90)
	}
	if v.required("status", status) && !models.ValidStatus(status) {
		v.fail("The selected status is invalid.")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	commune, err := s.repomanager.Communes(s.db).Create(ctx, &models.Commune{
		RegionID:    regionID,
		Description: description,
		Status:      status,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}
	return commune, nil
}

func (s *CommuneService) Update(ctx context.Context, id int64, regionID *int64, description, status *string) error {
	v := &validator{}
	if regionID != nil {
		s.regionExists(ctx, v, *regionID)
	}
	if description != nil {
		v.maxLen("description", *description, 90)
	}
	if status != nil && !models.ValidStatus(*status) {
		v.fail("The selected status is invalid.")
	}
	if err := v.err(); err != nil {
		return err
	}

	err := s.repomanager.Communes(s.db).Update(ctx, id, regionID, description, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

func (s *CommuneService) Delete(ctx context.Context, id int64) (*models.Commune, error) {
	repo := s.repomanager.Communes(s.db)

	commune, err := repo.Get(ctx, id)
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

	return commune, nil
}
