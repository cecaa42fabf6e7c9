package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cydea/vulnbank/internal/api/handler"
	"github.com/cydea/vulnbank/internal/core/domain"
)

// errorResponse is the canonical error envelope. ErrorID correlates the
// client-visible response with the server-side log entry holding the detail.
type errorResponse struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	ErrorID string            `json:"error_id"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Tags every error response with a generated correlation id and logs the
//     real cause under that id, server-side only.
//   - Renders validation failures with per-field messages.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		errorID := uuid.NewString()
		code, resp := resolveError(err, errorID)
		resp.ErrorID = errorID

		logEvent := log.Warn()
		if code >= http.StatusInternalServerError {
			logEvent = log.Error()
		}
		logEvent.
			Err(err).
			Str("error_id", errorID).
			Int("status", code).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")

		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, errorID string) (int, errorResponse) {
	// Per-field validation failures from the request validator.
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: ve.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors map to deterministic codes with fixed, generic
	// messages; internal wording never reaches the client.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "username already exists"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrTransferLimit),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: "an error occurred while processing your request"}
}
