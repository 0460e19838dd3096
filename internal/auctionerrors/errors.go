package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyExists   = errors.New("username already taken")
	ErrConflict        = errors.New("auction modified concurrently")
	ErrPersistence     = errors.New("storage rejected the operation")
)

// business logic errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrAuctionClosed = errors.New("auction closed")
	ErrContention    = errors.New("too much contention on auction")
)

// auth errors
var (
	ErrUnauthorized = errors.New("invalid or expired credential")
)
