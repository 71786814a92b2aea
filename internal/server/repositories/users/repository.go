// Package users provides the PostgreSQL-backed repository for registered
// accounts.
package users

import (
	"context"

	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns it with ID and CreatedAt set.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername looks up a user by exact (case-sensitive) name.
	// Absence yields common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID looks up a user by id. Absence yields common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
