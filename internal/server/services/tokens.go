package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/dbx"
	"github.com/dvergara-cl/refdata/internal/server/config"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/repomanager"
)

// tokenRandBytes yields the 40-character lowercase hex format the client
// expects while carrying 160 bits of entropy.
const tokenRandBytes = 20

// TokenService issues, validates and revokes the opaque bearer tokens
// persisted per login session.
type TokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validity    time.Duration
	now         func() time.Time
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:          db,
		repomanager: m,
		validity:    cfg.TokenValidityDuration,
		now:         time.Now,
	}
}

// Issue generates a fresh token for the user and persists it with
// expiry = now + validity. Tokens are independent: issuing never touches
// previously issued tokens for the same user.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	return s.issueOn(ctx, s.db, user)
}

// issueOn persists through the given handle so registration can write
// the user and the first token in one transaction.
func (s *TokenService) issueOn(ctx context.Context, db dbx.DBTX, user *models.User) (string, error) {

	token, err := common.MakeRandHexString(tokenRandBytes)
	if err != nil {
		return "", common.ErrorInternal
	}

	repo := s.repomanager.SessionTokens(db)
	if err := repo.Create(ctx, user.ID, token, s.now().Add(s.validity)); err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Validate resolves a presented bearer value to its owning user. The
// literal "Bearer " prefix is stripped if present. A missing, unknown or
// expired token returns common.ErrInvalidToken; callers translate that
// into a 401, never an exception path.
func (s *TokenService) Validate(ctx context.Context, presented string) (*models.User, error) {

	token := strings.TrimPrefix(presented, common.BearerPrefix)
	if token == "" {
		return nil, common.ErrInvalidToken
	}

	repo := s.repomanager.SessionTokens(s.db)
	st, err := repo.FindValid(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	// The indexed lookup already matched exactly; the explicit compare
	// keeps the final equality check constant-time.
	if subtle.ConstantTimeCompare([]byte(st.Token), []byte(token)) != 1 {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, st.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// RevokeAll deletes every session token belonging to the user in a single
// statement. Used by logout; safe to call when no tokens remain.
func (s *TokenService) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repomanager.SessionTokens(s.db).DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, common.ErrorInternal
	}
	return n, nil
}
