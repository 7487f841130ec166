package repository

import (
	"context"

	"github.com/oksasatya/job-portal/internal/domain/entity"
)

// UserRepository defines the Credential Store operations.
type UserRepository interface {
	// Create assigns ID, Version and timestamps to u. Returns ErrDuplicateKey
	// when the email is already registered.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persists u only if the stored version still equals u.Version,
	// then increments u.Version. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, u *entity.User) error
	GetManyByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
}
