package ports

import "context"

// UserProfile is the sanitized projection exposed by every user endpoint.
// It deliberately carries no password hash, role, or admin flag.
type UserProfile struct {
	ID       string
	Username string
	Email    string
}

// AdminUserView is the privileged projection for admin-only listings. The
// password hash stays out even here.
type AdminUserView struct {
	ID       string
	Username string
	Email    string
	Role     string
	Admin    bool
}

// UserService defines use-case operations on user records.
type UserService interface {
	Create(ctx context.Context, username, password, email string) (*UserProfile, error)
	Get(ctx context.Context, id string) (*UserProfile, error)
	List(ctx context.Context) ([]UserProfile, error)
	Search(ctx context.Context, q string) ([]UserProfile, error)
	Delete(ctx context.Context, id string) error
	ListPrivileged(ctx context.Context) ([]AdminUserView, error)
}
