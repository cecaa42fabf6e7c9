package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var ErrUserExists = errors.New("username already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models a registered account holder. Role and Admin are assigned
// server-side only; client payloads never bind them.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Admin        bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
