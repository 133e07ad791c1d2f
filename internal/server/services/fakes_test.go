package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/dbx"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/audit"
	"github.com/dvergara-cl/refdata/internal/server/repositories/communes"
	"github.com/dvergara-cl/refdata/internal/server/repositories/customers"
	"github.com/dvergara-cl/refdata/internal/server/repositories/regions"
	"github.com/dvergara-cl/refdata/internal/server/repositories/sessiontokens"
	"github.com/dvergara-cl/refdata/internal/server/repositories/users"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users     map[string]*models.User
	nextID    int64
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.users[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := *user
	u.ID = r.nextID
	r.nextID++
	r.users[u.Email] = &u
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeSessionTokenRepo struct {
	tokens    map[string]*models.SessionToken
	nextID    int64
	createErr error
}

func newFakeSessionTokenRepo() *fakeSessionTokenRepo {
	return &fakeSessionTokenRepo{tokens: map[string]*models.SessionToken{}, nextID: 1}
}

func (r *fakeSessionTokenRepo) Create(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.tokens[token] = &models.SessionToken{
		ID:        r.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	r.nextID++
	return nil
}

func (r *fakeSessionTokenRepo) FindValid(_ context.Context, token string, now time.Time) (*models.SessionToken, error) {
	st, ok := r.tokens[token]
	if !ok || !st.ExpiresAt.After(now) {
		return nil, common.ErrorNotFound
	}
	return st, nil
}

func (r *fakeSessionTokenRepo) DeleteAllForUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for token, st := range r.tokens {
		if st.UserID == userID {
			delete(r.tokens, token)
			n++
		}
	}
	return n, nil
}

type fakeAuditRepo struct {
	entries   []*models.AuditEntry
	appendErr error
	listErr   error
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *models.AuditEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	e := *entry
	e.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, &e)
	return nil
}

func (r *fakeAuditRepo) ListAll(_ context.Context) ([]*models.AuditEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.entries, nil
}

type fakeRegionRepo struct {
	regions map[int64]*models.Region
	nextID  int64
}

func newFakeRegionRepo() *fakeRegionRepo {
	return &fakeRegionRepo{regions: map[int64]*models.Region{}, nextID: 1}
}

func (r *fakeRegionRepo) List(_ context.Context, limit, offset int) ([]*models.Region, int64, error) {
	var all []*models.Region
	for id := int64(1); id < r.nextID; id++ {
		if reg, ok := r.regions[id]; ok {
			all = append(all, reg)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeRegionRepo) Get(_ context.Context, id int64) (*models.Region, error) {
	if reg, ok := r.regions[id]; ok {
		return reg, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeRegionRepo) Create(_ context.Context, region *models.Region) (*models.Region, error) {
	reg := *region
	reg.ID = r.nextID
	r.nextID++
	r.regions[reg.ID] = &reg
	return &reg, nil
}

func (r *fakeRegionRepo) Update(_ context.Context, id int64, description, status *string) error {
	reg, ok := r.regions[id]
	if !ok {
		return common.ErrorNotFound
	}
	if description != nil {
		reg.Description = *description
	}
	if status != nil {
		reg.Status = *status
	}
	return nil
}

func (r *fakeRegionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.regions[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.regions, id)
	return nil
}

func (r *fakeRegionRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.regions[id]
	return ok, nil
}

type fakeCommuneRepo struct {
	communes map[int64]*models.Commune
	nextID   int64
}

func newFakeCommuneRepo() *fakeCommuneRepo {
	return &fakeCommuneRepo{communes: map[int64]*models.Commune{}, nextID: 1}
}

func (r *fakeCommuneRepo) List(_ context.Context, limit, offset int) ([]*models.Commune, int64, error) {
	var all []*models.Commune
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.communes[id]; ok {
			all = append(all, c)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeCommuneRepo) Get(_ context.Context, id int64) (*models.Commune, error) {
	if c, ok := r.communes[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeCommuneRepo) Create(_ context.Context, commune *models.Commune) (*models.Commune, error) {
	c := *commune
	c.ID = r.nextID
	r.nextID++
	r.communes[c.ID] = &c
	return &c, nil
}

func (r *fakeCommuneRepo) Update(_ context.Context, id int64, regionID *int64, description, status *string) error {
	c, ok := r.communes[id]
	if !ok {
		return common.ErrorNotFound
	}
	if regionID != nil {
		c.RegionID = *regionID
	}
	if description != nil {
		c.Description = *description
	}
	if status != nil {
		c.Status = *status
	}
	return nil
}

func (r *fakeCommuneRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.communes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.communes, id)
	return nil
}

func (r *fakeCommuneRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.communes[id]
	return ok, nil
}

type fakeCustomerRepo struct {
	customers map[int64]*models.Customer
	nextID    int64
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int64]*models.Customer{}, nextID: 1}
}

func (r *fakeCustomerRepo) List(_ context.Context, limit, offset int) ([]*models.Customer, int64, error) {
	var all []*models.Customer
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.customers[id]; ok {
			all = append(all, c)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeCustomerRepo) Get(_ context.Context, id int64) (*models.Customer, error) {
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	c := *customer
	c.ID = r.nextID
	r.nextID++
	r.customers[c.ID] = &c
	return &c, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *models.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return common.ErrorNotFound
	}
	c := *customer
	r.customers[c.ID] = &c
	return nil
}

type fakeRepoManager struct {
	users         *fakeUserRepo
	sessionTokens *fakeSessionTokenRepo
	audit         *fakeAuditRepo
	regions       *fakeRegionRepo
	communes      *fakeCommuneRepo
	customers     *fakeCustomerRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:         newFakeUserRepo(),
		sessionTokens: newFakeSessionTokenRepo(),
		audit:         &fakeAuditRepo{},
		regions:       newFakeRegionRepo(),
		communes:      newFakeCommuneRepo(),
		customers:     newFakeCustomerRepo(),
	}
}

func (m *fakeRepoManager) Users(_ dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) SessionTokens(_ dbx.DBTX) sessiontokens.Repository { return m.sessionTokens }
func (m *fakeRepoManager) Audit(_ dbx.DBTX) audit.Repository                 { return m.audit }
func (m *fakeRepoManager) Regions(_ dbx.DBTX) regions.Repository             { return m.regions }
func (m *fakeRepoManager) Communes(_ dbx.DBTX) communes.Repository           { return m.communes }
func (m *fakeRepoManager) Customers(_ dbx.DBTX) customers.Repository         { return m.customers }
func (m *fakeRepoManager) RunMigrations(_ context.Context, _ *sql.DB) error  { return nil }
