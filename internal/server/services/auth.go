package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/dbx"
	"github.com/dvergara-cl/refdata/internal/server/config"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AuthService orchestrates registration, login and logout on top of the
// user repository and the token service.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	bcryptCost  int
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		bcryptCost:  cfg.BcryptCost,
	}
}

func (s *AuthService) validateRegister(ctx context.Context, name, email, password string) error {
	v := &validator{}

	if v.required("name", name) {
		v.maxLen("name", name, 100)
	}
	if v.required("email", email) {
		v.email("email", email)
		v.maxLen("email", email, 100)

		// Best-effort pre-check for a friendly message. The unique index
		// on users.email is the actual guarantee; see Register.
		if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, email); err == nil {
			v.fail("The email has already been taken.")
		} else if !errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInternal
		}
	}
	if v.required("password", password) {
		v.minLen("password", password, 8)
	}

	return v.err()
}

// Register validates the input, creates the user with a bcrypt-hashed
// password and issues an immediate session token. The user insert and the
// token insert commit together: a failed token write never leaves behind a
// user without a session. A duplicate email lost to a concurrent
// registration surfaces as the same validation failure the pre-check
// produces.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {

	if err := s.validateRegister(ctx, name, email, password); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	var token string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created

		token, err = s.tokens.issueOn(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", &ValidationError{Messages: []string{"The email has already been taken."}}
		}
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

func (s *AuthService) validateLogin(email, password string) error {
	v := &validator{}

	if v.required("email", email) {
		v.email("email", email)
		v.maxLen("email", email, 100)
	}
	v.required("password", password)

	return v.err()
}

// Login authenticates by email and password and issues a new token,
// independent of any existing sessions. Unknown email and wrong password
// are indistinguishable to the caller: both return
// common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {

	if err := s.validateLogin(email, password); err != nil {
		return nil, "", err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout revokes every session token of the user. Calling it again is a
// no-op apart from having nothing left to delete.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	_, err := s.tokens.RevokeAll(ctx, userID)
	return err
}
