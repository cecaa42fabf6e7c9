package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

// dummyHash is a bcrypt hash of an unguessable sentinel. Login runs a
// compare against it when the username is unknown so both failure paths
// cost the same and respond the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements signup and login on top of the user store.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenService
}

func NewAuthService(users ports.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup creates a user with the USER role and no admin flag, whatever the
// transport layer was handed. The password is stored bcrypt-hashed only.
func (s *AuthService) Signup(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(email),
		Role:         domain.RoleUser,
		Admin:        false,
	}
	return s.users.Create(ctx, user)
}

// Login verifies the credentials and issues a token carrying the stored
// role and admin flag. Unknown username and wrong password are reported
// identically as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Burn a compare anyway; the miss path must not be cheaper.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}
