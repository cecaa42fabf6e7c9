package handler

// --- Request types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// signupRequest deliberately binds only the safe field set. Role and admin
// flag have no JSON mapping here, so extra fields in the payload are
// silently discarded instead of escalating the new account.
type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Email    string `json:"email"    validate:"required,email"`
}

type transferRequest struct {
	Amount      float64 `json:"amount"      validate:"required,gte=0.01"`
	Description string  `json:"description" validate:"max=200"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type tokenResponse struct {
	Token string `json:"token"`
}

// userResponse is the sanitized user projection. It never carries the
// password hash, role, or admin flag.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// adminUserResponse is the privileged projection for admin listings.
type adminUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Admin    bool   `json:"is_admin"`
}

type deleteResponse struct {
	Status string `json:"status"`
}

type accountResponse struct {
	ID      string  `json:"id"`
	IBAN    string  `json:"iban"`
	Balance float64 `json:"balance"`
}

type transferResponse struct {
	Status           string  `json:"status"`
	TransferAmount   float64 `json:"transferAmount"`
	RemainingBalance float64 `json:"remainingBalance"`
	Description      string  `json:"description"`
}
