package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

const identityKey = "identity"

// AuthContext resolves the caller identity from the Authorization header and
// stores it in the request context. It never rejects: a missing, malformed,
// or invalid token downgrades the request to anonymous and the per-route
// authorization rules decide what anonymous may do. Verification failures
// are logged by class server-side only.
func AuthContext(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				c.Set(identityKey, domain.Identity{})
				return next(c)
			}

			ident, err := verifier.Verify(raw)
			if err != nil {
				log.Debug().Err(err).Str("remote_ip", c.RealIP()).Msg("token rejected, proceeding anonymous")
				c.Set(identityKey, domain.Identity{})
				return next(c)
			}

			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity resolved by AuthContext. Requests that
// never passed through the middleware read as anonymous.
func IdentityFrom(c echo.Context) domain.Identity {
	ident, _ := c.Get(identityKey).(domain.Identity)
	return ident
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
