package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// tokenClaims is the signed claim set. Subject carries the username; the
// private claims mirror what clients of the original lab expect on the wire.
type tokenClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Admin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed bearer tokens. Verification
// enforces signing method, issuer, audience, and expiry.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, issuer, audience string) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// Issue signs a token for the given user, expiring after the configured TTL.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := tokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		Admin:  user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a raw token and returns the resolved identity.
func (s *TokenService) Verify(raw string) (domain.Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return domain.Identity{}, err
	}
	if !token.Valid {
		return domain.Identity{}, jwt.ErrTokenUnverifiable
	}

	return domain.Identity{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Role:     claims.Role,
		Admin:    claims.Admin,
	}, nil
}
