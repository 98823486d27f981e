package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation func(err error) bool
}

type SQLRepository struct {
	db      dbx.DBTX
	dialect Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// bind replaces each '?' in q with the dialect placeholder.
func (r *SQLRepository) bind(q string) string {
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteString(r.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	profile, err := json.Marshal(models.SanitizeProfile(user.Profile))
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	query := r.bind(
		`INSERT INTO users (id, email, password_hash, profile, created_at)
		 VALUES (?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, string(profile), user.CreatedAt.UTC())
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.bind(
		`SELECT id, email, password_hash, profile, created_at FROM users
		 WHERE email = ?`)

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := r.bind(
		`SELECT id, email, password_hash, profile, created_at FROM users
		 WHERE id = ?`)

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		user      models.User
		profile   []byte
		createdAt time.Time
	)

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &profile, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Profile = map[string]any{}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &user.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	user.CreatedAt = createdAt.UTC()

	return &user, nil
}
