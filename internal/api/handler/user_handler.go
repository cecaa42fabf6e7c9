package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

// UserHandler exposes the user CRUD and search endpoints. Responses always
// use the sanitized projection.
type UserHandler struct {
	userService ports.UserService
	audit       ports.AuditSink
}

func NewUserHandler(userService ports.UserService, audit ports.AuditSink) *UserHandler {
	return &UserHandler{userService: userService, audit: audit}
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	profile, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(profile))
}

// Create handles POST /api/users. The bound request only knows the safe
// field set, so role or admin fields in the payload are dropped.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      signupRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.userService.Create(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(profile))
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  userResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	profiles, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(profiles))
}

// Search handles GET /api/users/search?q=.
//
// @Summary      Search users by username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q    query    string  true  "Username fragment"
// @Success      200  {array}  userResponse
// @Router       /api/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	profiles, err := h.userService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(profiles))
}

// Delete handles DELETE /api/users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	if h.audit != nil {
		h.audit.Record(domain.SecurityEvent{
			Kind:      domain.EventUserDeleted,
			Subject:   callerIdentity(c).Username,
			Detail:    "user " + id,
			ClientIP:  c.RealIP(),
			Timestamp: time.Now().UTC(),
		})
	}
	return c.JSON(http.StatusOK, deleteResponse{Status: "deleted"})
}

// ListPrivileged handles GET /api/admin/users.
//
// @Summary      List users with role details (admin only)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   adminUserResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *UserHandler) ListPrivileged(c echo.Context) error {
	views, err := h.userService.ListPrivileged(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]adminUserResponse, len(views))
	for i, v := range views {
		out[i] = adminUserResponse{
			ID:       v.ID,
			Username: v.Username,
			Email:    v.Email,
			Role:     v.Role,
			Admin:    v.Admin,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func toUserResponse(p *ports.UserProfile) userResponse {
	return userResponse{ID: p.ID, Username: p.Username, Email: p.Email}
}

func toUserResponses(profiles []ports.UserProfile) []userResponse {
	out := make([]userResponse, len(profiles))
	for i, p := range profiles {
		out[i] = toUserResponse(&p)
	}
	return out
}
