package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrInventoryInUse    = errors.New("inventory is referenced by order items")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStock      = errors.New("stock must not be negative")
)

// InsufficientStockError reports how much of an item is actually available.
// At add-to-cart time it is a soft warning; at checkout it aborts the whole
// transaction.
type InsufficientStockError struct {
	Item      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.Item, e.Available)
}

// -- Constants (External Systems) --
const (
	PgForeignKeyViolation = "23503"
)
