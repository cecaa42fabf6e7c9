package ports

import (
	"context"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// AuthService implements signup and login.
type AuthService interface {
	// Signup registers a new user. Role and admin flag are forced to their
	// safe defaults regardless of what the caller supplied upstream.
	Signup(ctx context.Context, username, password, email string) (*domain.User, error)
	// Login verifies credentials and returns a signed token. Unknown
	// usernames and wrong passwords are indistinguishable to the caller.
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenVerifier validates a raw bearer token and resolves the caller identity.
type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}
