package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cydea/vulnbank/internal/core/domain"
)

type stubAuthService struct {
	signupUser *domain.User
	signupErr  error
	loginToken string
	loginErr   error

	gotUsername string
	gotPassword string
	gotEmail    string
}

func (s *stubAuthService) Signup(_ context.Context, username, password, email string) (*domain.User, error) {
	s.gotUsername, s.gotPassword, s.gotEmail = username, password, email
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return s.signupUser, nil
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (string, error) {
	s.gotUsername, s.gotPassword = username, password
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return s.loginToken, nil
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{loginToken: "signed.jwt.token"}
	h := NewAuthHandler(svc, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"alice123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] != "signed.jwt.token" {
		t.Fatalf("unexpected token %q", resp["token"])
	}
	if svc.gotUsername != "alice" || svc.gotPassword != "alice123" {
		t.Fatalf("credentials not forwarded: %q/%q", svc.gotUsername, svc.gotPassword)
	}
}

func TestAuthHandler_Login_BadCredentialsBubbleUp(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc, nil)

	c, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to bubble to the error handler, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"username":"alice"}`)
	err := h.Login(c)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, found := ve.Fields["password"]; !found {
		t.Fatalf("missing password field message: %+v", ve.Fields)
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := &stubAuthService{signupUser: &domain.User{
		ID:       "user-7",
		Username: "carol",
		Email:    "carol@example.com",
		Role:     domain.RoleUser,
	}}
	h := NewAuthHandler(svc, nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/signup",
		`{"username":"carol","password":"carolpw","email":"carol@example.com"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["username"] != "carol" || resp["id"] != "user-7" {
		t.Fatalf("unexpected body: %v", resp)
	}
	for _, leaked := range []string{"role", "is_admin", "isAdmin", "password"} {
		if _, found := resp[leaked]; found {
			t.Fatalf("response must not carry %q: %v", leaked, resp)
		}
	}
}

func TestAuthHandler_Signup_IgnoresPrivilegeFields(t *testing.T) {
	svc := &stubAuthService{signupUser: &domain.User{ID: "user-8", Username: "mallory", Email: "m@example.com"}}
	h := NewAuthHandler(svc, nil)

	// Extra fields in the payload have no binding target and are dropped.
	c, rec := newTestContext(http.MethodPost, "/api/auth/signup",
		`{"username":"mallory","password":"mallory1","email":"m@example.com","role":"ADMIN","isAdmin":true}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.gotUsername != "mallory" || svc.gotPassword != "mallory1" || svc.gotEmail != "m@example.com" {
		t.Fatalf("only the safe field set must reach the service: %q/%q/%q",
			svc.gotUsername, svc.gotPassword, svc.gotEmail)
	}
}

func TestAuthHandler_Signup_RejectsInvalidEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, _ := newTestContext(http.MethodPost, "/api/auth/signup",
		`{"username":"carol","password":"carolpw","email":"not-an-email"}`)
	err := h.Signup(c)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, found := ve.Fields["email"]; !found {
		t.Fatalf("missing email field message: %+v", ve.Fields)
	}
}
