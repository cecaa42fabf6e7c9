package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

// UserService implements the user CRUD and search use cases. Every outward
// path goes through the sanitized profile projection.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func toProfile(u *domain.User) *ports.UserProfile {
	return &ports.UserProfile{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Create registers a user from the safe field set. Role and admin flag are
// not parameters on purpose.
func (s *UserService) Create(ctx context.Context, username, password, email string) (*ports.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(email),
		Role:         domain.RoleUser,
		Admin:        false,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return toProfile(created), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*ports.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func (s *UserService) List(ctx context.Context) ([]ports.UserProfile, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return profiles(users), nil
}

func (s *UserService) Search(ctx context.Context, q string) ([]ports.UserProfile, error) {
	users, err := s.users.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return profiles(users), nil
}

// Delete removes the user unconditionally.
// TODO: restrict deletion to admins or the account owner.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ListPrivileged returns the admin projection including role and admin flag.
func (s *UserService) ListPrivileged(ctx context.Context) ([]ports.AdminUserView, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.AdminUserView, len(users))
	for i, u := range users {
		out[i] = ports.AdminUserView{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			Admin:    u.Admin,
		}
	}
	return out, nil
}

func profiles(users []*domain.User) []ports.UserProfile {
	out := make([]ports.UserProfile, len(users))
	for i, u := range users {
		out[i] = *toProfile(u)
	}
	return out
}
