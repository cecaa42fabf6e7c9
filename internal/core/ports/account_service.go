package ports

import (
	"context"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// TransferInput carries a validated transfer request into the service.
type TransferInput struct {
	AccountID   string
	Amount      float64
	Description string
}

// TransferResult is returned after a successful transfer.
type TransferResult struct {
	Status           string
	TransferAmount   float64
	RemainingBalance float64
	Description      string
}

// AccountService defines account use cases. Every operation receives the
// resolved caller identity and enforces ownership before touching state.
type AccountService interface {
	// Balance returns the account balance. The caller must own the account.
	Balance(ctx context.Context, ident domain.Identity, accountID string) (float64, error)
	// Transfer debits the account after ownership and amount validation.
	Transfer(ctx context.Context, ident domain.Identity, in TransferInput) (*TransferResult, error)
	// Mine lists the caller's accounts. Anonymous callers get an empty list.
	Mine(ctx context.Context, ident domain.Identity) ([]*domain.Account, error)
}
