package domain

import "errors"

// Rejection messages are stable strings surfaced verbatim to callers.
var (
	ErrSupplyExhausted     = errors.New("no more new tickets available")
	ErrTicketUsed          = errors.New("ticket already used")
	ErrUnauthorized        = errors.New("no permission")
	ErrPriceCapExceeded    = errors.New("price must be lower than the maximum price")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrSystemPaused        = errors.New("system paused")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrNotForSale          = errors.New("ticket not for sale")
	ErrExactPaymentOnly    = errors.New("exact payment required")
)

// Creation-time configuration errors.
var (
	ErrInvalidSupplyCap     = errors.New("supply cap must be at least 1")
	ErrInvalidBasePrice     = errors.New("base price must be positive")
	ErrInvalidPriceMultiple = errors.New("price multiple cap must be at least 1")
	ErrInvalidTransferFee   = errors.New("transfer fee percent must be between 0 and 100")
)
