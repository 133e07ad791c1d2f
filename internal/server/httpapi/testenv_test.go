package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/dbx"
	"github.com/dvergara-cl/refdata/internal/logging"
	"github.com/dvergara-cl/refdata/internal/server/config"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/audit"
	"github.com/dvergara-cl/refdata/internal/server/repositories/communes"
	"github.com/dvergara-cl/refdata/internal/server/repositories/customers"
	"github.com/dvergara-cl/refdata/internal/server/repositories/regions"
	"github.com/dvergara-cl/refdata/internal/server/repositories/repomanager"
	"github.com/dvergara-cl/refdata/internal/server/repositories/sessiontokens"
	"github.com/dvergara-cl/refdata/internal/server/repositories/users"
	"github.com/dvergara-cl/refdata/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDiscardSlog() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// In-memory repositories backing the handler tests.

type memStore struct {
	users        map[int64]*models.User
	tokens       map[string]*models.SessionToken
	audit        []*models.AuditEntry
	regions      map[int64]*models.Region
	communes     map[int64]*models.Commune
	customers    map[int64]*models.Customer
	nextUserID   int64
	nextTokenID  int64
	nextRegionID int64
	nextComID    int64
	nextCustID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[int64]*models.User{},
		tokens:       map[string]*models.SessionToken{},
		regions:      map[int64]*models.Region{},
		communes:     map[int64]*models.Commune{},
		customers:    map[int64]*models.Customer{},
		nextUserID:   1,
		nextTokenID:  1,
		nextRegionID: 1,
		nextComID:    1,
		nextCustID:   1,
	}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u := *user
	u.ID = r.s.nextUserID
	r.s.nextUserID++
	r.s.users[u.ID] = &u
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type memTokens struct{ s *memStore }

func (r memTokens) Create(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	r.s.tokens[token] = &models.SessionToken{ID: r.s.nextTokenID, UserID: userID, Token: token, ExpiresAt: expiresAt}
	r.s.nextTokenID++
	return nil
}

func (r memTokens) FindValid(_ context.Context, token string, now time.Time) (*models.SessionToken, error) {
	st, ok := r.s.tokens[token]
	if !ok || !st.ExpiresAt.After(now) {
		return nil, common.ErrorNotFound
	}
	return st, nil
}

func (r memTokens) DeleteAllForUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for token, st := range r.s.tokens {
		if st.UserID == userID {
			delete(r.s.tokens, token)
			n++
		}
	}
	return n, nil
}

type memAudit struct{ s *memStore }

func (r memAudit) Append(_ context.Context, entry *models.AuditEntry) error {
	e := *entry
	e.ID = int64(len(r.s.audit) + 1)
	r.s.audit = append(r.s.audit, &e)
	return nil
}

func (r memAudit) ListAll(_ context.Context) ([]*models.AuditEntry, error) {
	return r.s.audit, nil
}

type memRegions struct{ s *memStore }

func (r memRegions) List(_ context.Context, limit, offset int) ([]*models.Region, int64, error) {
	var all []*models.Region
	for id := int64(1); id < r.s.nextRegionID; id++ {
		if reg, ok := r.s.regions[id]; ok {
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

func (r memRegions) Get(_ context.Context, id int64) (*models.Region, error) {
	if reg, ok := r.s.regions[id]; ok {
		return reg, nil
	}
	return nil, common.ErrorNotFound
}

func (r memRegions) Create(_ context.Context, region *models.Region) (*models.Region, error) {
	reg := *region
	reg.ID = r.s.nextRegionID
	r.s.nextRegionID++
	r.s.regions[reg.ID] = &reg
	return &reg, nil
}

func (r memRegions) Update(_ context.Context, id int64, description, status *string) error {
	reg, ok := r.s.regions[id]
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

func (r memRegions) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.regions[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.regions, id)
	return nil
}

func (r memRegions) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.s.regions[id]
	return ok, nil
}

type memCommunes struct{ s *memStore }

func (r memCommunes) List(_ context.Context, limit, offset int) ([]*models.Commune, int64, error) {
	var all []*models.Commune
	for id := int64(1); id < r.s.nextComID; id++ {
		if c, ok := r.s.communes[id]; ok {
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

func (r memCommunes) Get(_ context.Context, id int64) (*models.Commune, error) {
	if c, ok := r.s.communes[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (r memCommunes) Create(_ context.Context, commune *models.Commune) (*models.Commune, error) {
	c := *commune
	c.ID = r.s.nextComID
	r.s.nextComID++
	r.s.communes[c.ID] = &c
	return &c, nil
}

func (r memCommunes) Update(_ context.Context, id int64, regionID *int64, description, status *string) error {
	c, ok := r.s.communes[id]
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

func (r memCommunes) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.communes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.communes, id)
	return nil
}

func (r memCommunes) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.s.communes[id]
	return ok, nil
}

type memCustomers struct{ s *memStore }

func (r memCustomers) List(_ context.Context, limit, offset int) ([]*models.Customer, int64, error) {
	var all []*models.Customer
	for id := int64(1); id < r.s.nextCustID; id++ {
		if c, ok := r.s.customers[id]; ok {
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

func (r memCustomers) Get(_ context.Context, id int64) (*models.Customer, error) {
	if c, ok := r.s.customers[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (r memCustomers) Create(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	c := *customer
	c.ID = r.s.nextCustID
	r.s.nextCustID++
	r.s.customers[c.ID] = &c
	return &c, nil
}

func (r memCustomers) Update(_ context.Context, customer *models.Customer) error {
	if _, ok := r.s.customers[customer.ID]; !ok {
		return common.ErrorNotFound
	}
	c := *customer
	r.s.customers[c.ID] = &c
	return nil
}

type memRepoManager struct{ s *memStore }

func (m memRepoManager) Users(_ dbx.DBTX) users.Repository                 { return memUsers{m.s} }
func (m memRepoManager) SessionTokens(_ dbx.DBTX) sessiontokens.Repository { return memTokens{m.s} }
func (m memRepoManager) Audit(_ dbx.DBTX) audit.Repository                 { return memAudit{m.s} }
func (m memRepoManager) Regions(_ dbx.DBTX) regions.Repository             { return memRegions{m.s} }
func (m memRepoManager) Communes(_ dbx.DBTX) communes.Repository           { return memCommunes{m.s} }
func (m memRepoManager) Customers(_ dbx.DBTX) customers.Repository         { return memCustomers{m.s} }
func (m memRepoManager) RunMigrations(_ context.Context, _ *sql.DB) error  { return nil }

var _ repomanager.RepositoryManager = memRepoManager{}

type testEnv struct {
	store  *memStore
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost

	store := newMemStore()
	m := memRepoManager{store}

	// Registration brackets its writes in a real transaction; an
	// in-memory sqlite handle serves Begin/Commit while the mem
	// repositories hold the data.
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens := services.NewTokenService(db, m, cfg)
	auth := services.NewAuthService(db, m, tokens, cfg)
	auditSvc := services.NewAuditService(nil, m)
	export := services.NewExportService(auditSvc, cfg)

	logger := logging.NewSlogLogger(newDiscardSlog())
	srv := NewHTTPServer(cfg.EndpointAddr, logger, auth, tokens, auditSvc,
		services.NewRegionService(nil, m), services.NewCommuneService(nil, m),
		services.NewCustomerService(nil, m), export)

	return &testEnv{store: store, router: srv.Router()}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates an account through the API and returns its id
// and a fresh session token.
func (e *testEnv) registerAndLogin(t *testing.T) (int64, string) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Diego", "email": "diego@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "diego@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	return int64(data["id"].(float64)), token
}

func (e *testEnv) lastAudit(t *testing.T) *models.AuditEntry {
	t.Helper()
	require.NotEmpty(t, e.store.audit)
	return e.store.audit[len(e.store.audit)-1]
}
