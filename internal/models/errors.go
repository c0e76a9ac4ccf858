package models

import "errors"

// Domain errors. Handlers map these to HTTP status codes with errors.Is;
// everything else surfaces as an internal error.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidKind        = errors.New("transaction kind must be credit or debit")
	ErrSameAccount        = errors.New("sender and recipient are the same account")
)
