package domain

import "errors"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletInactive      = errors.New("wallet is not active")
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrAlreadyExists       = errors.New("record already exists")
)
