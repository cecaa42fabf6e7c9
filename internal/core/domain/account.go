package domain

import "errors"

// Transfer business rules. MinTransferAmount guards against zero/negative
// and sub-cent amounts; MaxTransferAmount caps a single transfer.
const (
	MinTransferAmount = 0.01
	MaxTransferAmount = 10000.0
)

var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidAmount = errors.New("transfer amount must be at least 0.01")
var ErrForbidden = errors.New("access forbidden")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrTransferLimit = errors.New("transfer amount exceeds maximum limit")

// Account is a bank account owned by exactly one user. Balance only changes
// through the validated transfer path and never goes negative.
type Account struct {
	ID          string  `json:"id"`
	OwnerUserID string  `json:"owner_user_id"`
	IBAN        string  `json:"iban"`
	Balance     float64 `json:"balance"`
}
