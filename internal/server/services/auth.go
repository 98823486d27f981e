// Package services contains server-side business logic. AuthService owns the
// user store and composes password hashing and token issuance into the
// register, login, validateToken and health operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/cryptox"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ServiceName is reported by Health.
const ServiceName = "auth"

// TokenIssuer is the part of auth.TokenService used here.
type TokenIssuer interface {
	Issue(subjectID, email string) (string, error)
	Verify(token string) (auth.Claims, error)
}

// LoginResult is the sole payload of a successful login.
type LoginResult struct {
	AccessToken string
}

// HealthReport describes liveness and the size of the user store.
type HealthReport struct {
	Status    string
	Service   string
	UserCount int64
	Timestamp time.Time
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	tokens      TokenIssuer
	now         func() time.Time
	// dummyHash is compared against on unknown emails so that login takes
	// roughly the same time whether or not the account exists.
	dummyHash string
}

// NewAuthService wires the service. It fails if the hasher cannot produce a
// hash, which means the hashing cost is misconfigured.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher, tokens TokenIssuer) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		now:         time.Now,
		dummyHash:   dummy,
	}, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrStoreUnavailable, err)
}

// Register creates a user. An email already present, whether seen by the
// lookup or by the store's unique constraint, yields common.ErrEmailTaken.
// The password is hashed before the transaction opens so that no store
// connection is held for the duration of the hash.
func (s *AuthService) Register(ctx context.Context, email, password string, profile map[string]any) (*models.PublicUser, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Profile:      models.SanitizeProfile(profile),
		CreatedAt:    s.now().UTC(),
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrEmailTaken
		case !errors.Is(err, common.ErrorNotFound):
			return storeError("find user", err)
		}

		created, err = repo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return common.ErrEmailTaken
			}
			return storeError("create user", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, common.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, storeError("register", err)
	}

	return created.Public(), nil
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, storeError("find user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{AccessToken: token}, nil
}

// ValidateToken resolves a token to the user it was issued for.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.PublicUser, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storeError("find user", err)
	}

	return user.Public(), nil
}

// Health reports liveness and the user count. It fails only when the store
// cannot be queried.
func (s *AuthService) Health(ctx context.Context) (*HealthReport, error) {
	n, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, storeError("count users", err)
	}
	return &HealthReport{
		Status:    "ok",
		Service:   ServiceName,
		UserCount: n,
		Timestamp: s.now().UTC(),
	}, nil
}
