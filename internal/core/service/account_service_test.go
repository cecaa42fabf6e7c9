package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo(accounts ...*domain.Account) *stubAccountRepo {
	r := &stubAccountRepo{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		clone := *a
		r.accounts[a.ID] = &clone
	}
	return r
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	clone := *account
	r.accounts[account.ID] = &clone
	return &clone, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) FindByOwner(_ context.Context, ownerUserID string) ([]*domain.Account, error) {
	out := []*domain.Account{}
	for _, a := range r.accounts {
		if a.OwnerUserID == ownerUserID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAccountRepo) Debit(_ context.Context, id string, amount float64) (float64, error) {
	a, ok := r.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if a.Balance < amount {
		return 0, domain.ErrInsufficientFunds
	}
	a.Balance -= amount
	return a.Balance, nil
}

type recordingSink struct {
	events []domain.SecurityEvent
}

func (s *recordingSink) Record(event domain.SecurityEvent) {
	s.events = append(s.events, event)
}

func aliceAccount() *domain.Account {
	return &domain.Account{ID: "acc-1", OwnerUserID: "user-1", IBAN: "PK00-ALICE", Balance: 1000.0}
}

func aliceIdentity() domain.Identity {
	return domain.Identity{UserID: "user-1", Username: "alice", Role: domain.RoleUser}
}

func newTestAccountService(repo *stubAccountRepo, sink ports.AuditSink) *AccountService {
	return NewAccountService(repo, sink, zerolog.Nop())
}

func TestAccountService_Balance_Owner(t *testing.T) {
	svc := newTestAccountService(newStubAccountRepo(aliceAccount()), nil)

	balance, err := svc.Balance(context.Background(), aliceIdentity(), "acc-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1000.0 {
		t.Fatalf("expected balance 1000.0, got %v", balance)
	}
}

func TestAccountService_Balance_NotOwner(t *testing.T) {
	svc := newTestAccountService(newStubAccountRepo(aliceAccount()), nil)
	intruder := domain.Identity{UserID: "user-2", Username: "bob", Role: domain.RoleUser}

	if _, err := svc.Balance(context.Background(), intruder, "acc-1"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_Balance_Missing(t *testing.T) {
	svc := newTestAccountService(newStubAccountRepo(), nil)

	if _, err := svc.Balance(context.Background(), aliceIdentity(), "nope"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Transfer_DebitsExactly(t *testing.T) {
	repo := newStubAccountRepo(aliceAccount())
	sink := &recordingSink{}
	svc := newTestAccountService(repo, sink)

	result, err := svc.Transfer(context.Background(), aliceIdentity(), ports.TransferInput{
		AccountID:   "acc-1",
		Amount:      250.50,
		Description: "rent",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("unexpected status %q", result.Status)
	}
	if result.TransferAmount != 250.50 {
		t.Fatalf("unexpected transfer amount %v", result.TransferAmount)
	}
	if result.RemainingBalance != 749.50 {
		t.Fatalf("unexpected remaining balance %v", result.RemainingBalance)
	}
	if result.Description != "rent" {
		t.Fatalf("description not echoed back: %q", result.Description)
	}

	if len(sink.events) != 1 || sink.events[0].Kind != domain.EventTransfer {
		t.Fatalf("expected one transfer audit event, got %+v", sink.events)
	}
	if sink.events[0].Subject != "alice" {
		t.Fatalf("audit subject should be the caller, got %q", sink.events[0].Subject)
	}
}

func TestAccountService_Transfer_InsufficientFunds(t *testing.T) {
	repo := newStubAccountRepo(aliceAccount())
	svc := newTestAccountService(repo, nil)

	_, err := svc.Transfer(context.Background(), aliceIdentity(), ports.TransferInput{
		AccountID: "acc-1",
		Amount:    1000.01,
	})
	if err != domain.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	account, _ := repo.FindByID(context.Background(), "acc-1")
	if account.Balance != 1000.0 {
		t.Fatalf("balance must be untouched on failure, got %v", account.Balance)
	}
}

func TestAccountService_Transfer_OverLimit(t *testing.T) {
	rich := &domain.Account{ID: "acc-9", OwnerUserID: "user-1", IBAN: "PK00-RICH", Balance: 50000.0}
	repo := newStubAccountRepo(rich)
	svc := newTestAccountService(repo, nil)

	_, err := svc.Transfer(context.Background(), aliceIdentity(), ports.TransferInput{
		AccountID: "acc-9",
		Amount:    10000.01,
	})
	if err != domain.ErrTransferLimit {
		t.Fatalf("expected ErrTransferLimit, got %v", err)
	}

	account, _ := repo.FindByID(context.Background(), "acc-9")
	if account.Balance != 50000.0 {
		t.Fatalf("balance must be untouched on failure, got %v", account.Balance)
	}
}

func TestAccountService_Transfer_BelowMinimum(t *testing.T) {
	svc := newTestAccountService(newStubAccountRepo(aliceAccount()), nil)

	_, err := svc.Transfer(context.Background(), aliceIdentity(), ports.TransferInput{
		AccountID: "acc-1",
		Amount:    0.005,
	})
	if err != domain.ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAccountService_Transfer_NotOwner(t *testing.T) {
	repo := newStubAccountRepo(aliceAccount())
	svc := newTestAccountService(repo, nil)
	intruder := domain.Identity{UserID: "user-2", Username: "bob", Role: domain.RoleUser}

	_, err := svc.Transfer(context.Background(), intruder, ports.TransferInput{
		AccountID: "acc-1",
		Amount:    10.0,
	})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_Mine_Anonymous(t *testing.T) {
	svc := newTestAccountService(newStubAccountRepo(aliceAccount()), nil)

	accounts, err := svc.Mine(context.Background(), domain.Identity{})
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("anonymous caller must see no accounts, got %d", len(accounts))
	}
}

func TestAccountService_Mine_Owner(t *testing.T) {
	other := &domain.Account{ID: "acc-2", OwnerUserID: "user-2", IBAN: "PK00-BOB", Balance: 5000.0}
	svc := newTestAccountService(newStubAccountRepo(aliceAccount(), other), nil)

	accounts, err := svc.Mine(context.Background(), aliceIdentity())
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != "acc-1" {
		t.Fatalf("expected only the caller's account, got %+v", accounts)
	}
}
