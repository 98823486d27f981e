// Package users implements the user store on top of database/sql.
// The same queries serve PostgreSQL (pgx) and SQLite (modernc); a Dialect
// supplies placeholders and unique-violation detection.
package users

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// Repository is the user store consumed by the auth service.
//
// FindByEmail and FindByID return common.ErrorNotFound when no row matches.
// Create returns common.ErrAlreadyExists when the email is already stored.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}
