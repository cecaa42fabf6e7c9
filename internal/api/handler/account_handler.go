package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cydea/vulnbank/internal/api/metrics"
	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

// AccountHandler exposes balance, transfer, and own-account listing.
// Ownership enforcement lives in the service; the handler only moves the
// resolved identity across.
type AccountHandler struct {
	accountService ports.AccountService
}

func NewAccountHandler(accountService ports.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Balance handles GET /api/accounts/:id/balance. The response body is the
// bare balance number.
//
// @Summary      Get account balance
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {number}  float64
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/accounts/{id}/balance [get]
func (h *AccountHandler) Balance(c echo.Context) error {
	balance, err := h.accountService.Balance(c.Request().Context(), callerIdentity(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balance)
}

// Transfer handles POST /api/accounts/:id/transfer.
//
// @Summary      Transfer money out of an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Account id"
// @Param        body  body      transferRequest  true  "Transfer details"
// @Success      200   {object}  transferResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/accounts/{id}/transfer [post]
func (h *AccountHandler) Transfer(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.accountService.Transfer(c.Request().Context(), callerIdentity(c), ports.TransferInput{
		AccountID:   c.Param("id"),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		metrics.TransfersTotal.WithLabelValues(transferResultLabel(err)).Inc()
		return err
	}

	metrics.TransfersTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, transferResponse{
		Status:           result.Status,
		TransferAmount:   result.TransferAmount,
		RemainingBalance: result.RemainingBalance,
		Description:      result.Description,
	})
}

// Mine handles GET /api/accounts/mine. Anonymous callers receive an empty
// list, which is why the route sits outside the RequireAuth group.
//
// @Summary      List the caller's accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  accountResponse
// @Router       /api/accounts/mine [get]
func (h *AccountHandler) Mine(c echo.Context) error {
	accounts, err := h.accountService.Mine(c.Request().Context(), callerIdentity(c))
	if err != nil {
		return err
	}

	out := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = accountResponse{ID: a.ID, IBAN: a.IBAN, Balance: a.Balance}
	}
	return c.JSON(http.StatusOK, out)
}

func transferResultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrTransferLimit):
		return "over_limit"
	default:
		return "error"
	}
}
