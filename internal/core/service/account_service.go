package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

// AccountService implements balance, transfer, and account listing. The
// ownership rule is enforced here, after identity resolution and before any
// state change: the resolved caller id must match the account owner id.
type AccountService struct {
	accounts ports.AccountRepository
	audit    ports.AuditSink
	logger   zerolog.Logger
}

func NewAccountService(accounts ports.AccountRepository, audit ports.AuditSink, logger zerolog.Logger) *AccountService {
	return &AccountService{accounts: accounts, audit: audit, logger: logger}
}

func (s *AccountService) Balance(ctx context.Context, ident domain.Identity, accountID string) (float64, error) {
	account, err := s.owned(ctx, ident, accountID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Transfer validates the amount against the business rules, then debits
// atomically. The repository re-checks funds inside the debit so a
// concurrent transfer on the same account cannot overdraw it.
func (s *AccountService) Transfer(ctx context.Context, ident domain.Identity, in ports.TransferInput) (*ports.TransferResult, error) {
	account, err := s.owned(ctx, ident, in.AccountID)
	if err != nil {
		return nil, err
	}

	if in.Amount < domain.MinTransferAmount {
		return nil, domain.ErrInvalidAmount
	}
	if in.Amount > domain.MaxTransferAmount {
		return nil, domain.ErrTransferLimit
	}
	if in.Amount > account.Balance {
		return nil, domain.ErrInsufficientFunds
	}

	remaining, err := s.accounts.Debit(ctx, in.AccountID, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	s.logger.Info().
		Str("account_id", in.AccountID).
		Str("user_id", ident.UserID).
		Float64("amount", in.Amount).
		Float64("remaining", remaining).
		Msg("transfer completed")

	if s.audit != nil {
		s.audit.Record(domain.SecurityEvent{
			Kind:      domain.EventTransfer,
			Subject:   ident.Username,
			Detail:    fmt.Sprintf("account %s amount %.2f", in.AccountID, in.Amount),
			Timestamp: time.Now().UTC(),
		})
	}

	return &ports.TransferResult{
		Status:           "success",
		TransferAmount:   in.Amount,
		RemainingBalance: remaining,
		Description:      in.Description,
	}, nil
}

// Mine lists the caller's accounts. Anonymous callers get an empty list
// rather than an error.
func (s *AccountService) Mine(ctx context.Context, ident domain.Identity) ([]*domain.Account, error) {
	if ident.IsAnonymous() {
		return []*domain.Account{}, nil
	}
	return s.accounts.FindByOwner(ctx, ident.UserID)
}

func (s *AccountService) owned(ctx context.Context, ident domain.Identity, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerUserID != ident.UserID {
		return nil, domain.ErrForbidden
	}
	return account, nil
}
