package ports

import (
	"context"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByOwner(ctx context.Context, ownerUserID string) ([]*domain.Account, error)
	// Debit atomically subtracts amount from the account balance and returns
	// the new balance. The subtraction only happens when the current balance
	// covers the amount; otherwise domain.ErrInsufficientFunds is returned
	// and the balance is untouched. This is the per-account serialization
	// point that keeps concurrent transfers from losing updates.
	Debit(ctx context.Context, id string, amount float64) (float64, error)
}
