package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cydea/vulnbank/internal/api/middleware"
	"github.com/cydea/vulnbank/internal/core/domain"
)

// callerIdentity returns the identity resolved by the auth-context
// middleware. Routes behind RequireAuth always see a non-anonymous value;
// optionally-authenticated routes must check IsAnonymous themselves.
func callerIdentity(c echo.Context) domain.Identity {
	return middleware.IdentityFrom(c)
}
