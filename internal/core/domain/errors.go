package domain

import "errors"

var (
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password does not meet the strength policy")
	ErrInvalidRole        = errors.New("unknown role")

	ErrProductNotFound = errors.New("product not found")

	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition covers any status change the transition table forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrOrderNotCancellable is returned when canceling an order that has
	// already been paid. The message is part of the API contract.
	ErrOrderNotCancellable = errors.New("Paid orders cannot be canceled")

	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)
