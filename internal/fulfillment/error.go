package fulfillment

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrNotItemOwner         = errors.New("order item belongs to another seller")

	// -- Resource State --
	ErrItemNotFound   = errors.New("order item not found")
	ErrStatusConflict = errors.New("order item status changed concurrently")

	// -- Validation & Input --
	ErrInvalidStatus     = errors.New("invalid order item status")
	ErrInvalidTransition = errors.New("illegal order item status transition")
)
