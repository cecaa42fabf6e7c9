package ports

import (
	"context"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create persists a new user and returns it with the server-assigned ID.
	// Returns domain.ErrUserExists when the username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Search returns users whose username contains q (case-insensitive).
	Search(ctx context.Context, q string) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
