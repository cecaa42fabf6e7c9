package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cydea/vulnbank/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = "user-" + string(rune('0'+r.nextID))
	r.users[created.Username] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Search(_ context.Context, q string) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for name, u := range r.users {
		if u.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, testTokenService())
}

func TestAuthService_Signup_ForcesSafeDefaults(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Signup(context.Background(), "mallory", "s3cret99", "mallory@example.com")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role %s, got %s", domain.RoleUser, user.Role)
	}
	if user.Admin {
		t.Fatalf("signup must never produce an admin")
	}
	if user.PasswordHash == "s3cret99" {
		t.Fatalf("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret99")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), "alice", "alice123", "alice@cydea.tech"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "alice", "other456", "other@cydea.tech"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_RejectsBlank(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Signup(context.Background(), "", "password", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for blank username, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "someone", "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for blank password, got %v", err)
	}
}

func TestAuthService_Login_TokenCarriesStoredClaims(t *testing.T) {
	repo := newStubUserRepo()
	tokens := testTokenService()
	svc := NewAuthService(repo, tokens)

	hash, _ := bcrypt.GenerateFromPassword([]byte("bob123"), bcrypt.MinCost)
	_, err := repo.Create(context.Background(), &domain.User{
		Username:     "bob",
		PasswordHash: string(hash),
		Email:        "bob@cydea.tech",
		Role:         domain.RoleAdmin,
		Admin:        true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	token, err := svc.Login(context.Background(), "bob", "bob123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	ident, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.Username != "bob" || ident.Role != domain.RoleAdmin || !ident.Admin {
		t.Fatalf("claims do not match stored user: %+v", ident)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), "carol", "goodpass", "carol@example.com"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), "carol", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost", "whatever")

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if unknownUser != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
}

func TestAuthService_Login_TokenExpiresAfterTTL(t *testing.T) {
	repo := newStubUserRepo()
	tokens := NewTokenService("test-secret", time.Minute, "vulnbank-api", "vulnbank-clients")
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	tokens.now = func() time.Time { return now }
	svc := NewAuthService(repo, tokens)

	if _, err := svc.Signup(context.Background(), "dave", "davepass", "dave@example.com"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, err := svc.Login(context.Background(), "dave", "davepass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	now = issuedAt.Add(59 * time.Second)
	if _, err := tokens.Verify(token); err != nil {
		t.Fatalf("token should be valid before the TTL: %v", err)
	}
	now = issuedAt.Add(61 * time.Second)
	if _, err := tokens.Verify(token); err == nil {
		t.Fatalf("token should be rejected after the TTL")
	}
}
