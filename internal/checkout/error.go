package checkout

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Resource State --
	ErrEmptyCart = errors.New("cart is empty")

	// -- Validation & Input --
	ErrMissingAddress = errors.New("no delivery address provided or stored")

	// ErrLockTimeout means contended inventory rows stayed locked past the
	// configured wait. The attempt is safe to retry.
	ErrLockTimeout = errors.New("inventory is busy, retry checkout")
)

// -- Constants (External Systems) --
const (
	PgLockNotAvailable = "55P03"
)
