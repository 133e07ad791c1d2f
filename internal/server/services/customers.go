package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/repomanager"
)

// CustomerInput carries the full customer payload. Creates and updates are
// validated identically because the client always sends every field.
type CustomerInput struct {
	DNI       string
	RegionID  int64
	CommuneID int64
	Email     string
	Name      string
	LastName  string
	Address   *string
	DateReg   string
	Status    string
}

// CustomerService implements CRUD over the customers table.
type CustomerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCustomerService(db *sql.DB, m repomanager.RepositoryManager) *CustomerService {
	return &CustomerService{db: db, repomanager: m}
}

func (s *CustomerService) List(ctx context.Context, page int) ([]*models.Customer, int64, error) {
	if page < 1 {
		page = 1
	}
	customers, total, err := s.repomanager.Customers(s.db).List(ctx, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, 0, common.ErrorInternal
	}
	return customers, total, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.repomanager.Customers(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return customer, nil
}

func (s *CustomerService) validate(ctx context.Context, in *CustomerInput) (*models.Customer, error) {
	v := &validator{}

	if v.required("dni", in.DNI) {
		v.maxLen("dni", in.DNI, 45)
	}

	if in.RegionID == 0 {
		v.fail("The id reg field is required.")
	} else if ok, err := s.repomanager.Regions(s.db).Exists(ctx, in.RegionID); err != nil || !ok {
		v.fail("The selected id reg is invalid.")
	}

	if in.CommuneID == 0 {
		v.fail("The id com field is required.")
	} else if commune, err := s.repomanager.Communes(s.db).Get(ctx, in.CommuneID); err != nil {
		v.fail("The selected id com is invalid.")
	} else if in.RegionID != 0 && commune.RegionID != in.RegionID {
		v.fail("La comuna y la región no están relacionadas.")
	}

	if v.required("email", in.Email) {
		v.email("email", in.Email)
		v.maxLen("email", in.Email, 120)
	}
	if v.required("name", in.Name) {
		v.maxLen("name", in.Name, 45)
	}
	if v.required("last name", in.LastName) {
		v.maxLen("last name", in.LastName, 45)
	}
	if in.Address != nil {
		v.maxLen("address", *in.Address, 255)
	}

	var dateReg time.Time
	if v.required("date reg", in.DateReg) {
		var err error
		dateReg, err = time.Parse("2006-01-02", in.DateReg)
		if err != nil {
			v.fail("The date reg is not a valid date.")
		}
	}

	if v.required("status", in.Status) && !models.ValidStatus(in.Status) {
		v.fail("The selected status is invalid.")
	}

	if err := v.err(); err != nil {
		return nil, err
	}

	return &models.Customer{
		DNI:       in.DNI,
		RegionID:  in.RegionID,
		CommuneID: in.CommuneID,
		Email:     in.Email,
		Name:      in.Name,
		LastName:  in.LastName,
		Address:   in.Address,
		DateReg:   dateReg,
		Status:    in.Status,
	}, nil
}

func (s *CustomerService) Create(ctx context.Context, in *CustomerInput) (*models.Customer, error) {
	customer, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	customer, err = s.repomanager.Customers(s.db).Create(ctx, customer)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, in *CustomerInput) (*models.Customer, error) {
	customer, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	customer.ID = id

	if err := s.repomanager.Customers(s.db).Update(ctx, customer); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return customer, nil
}

// Delete soft-deletes the customer by marking its status "trash", keeping
// the row for the client application's recycle view. Deleting an already
// trashed customer is rejected.
func (s *CustomerService) Delete(ctx context.Context, id int64) (*models.Customer, error) {
	repo := s.repomanager.Customers(s.db)

	customer, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if customer.Status == models.StatusTrash {
		return nil, &ValidationError{Messages: []string{"Registro no existe."}}
	}

	trashed := *customer
	trashed.Status = models.StatusTrash
	if err := repo.Update(ctx, &trashed); err != nil {
		return nil, common.ErrorInternal
	}

	return customer, nil
}
