package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a buyer's staging area. One per buyer per pipeline, created
// lazily and emptied (never deleted) by a successful checkout.
type Cart struct {
	ID        uint      `json:"id"`
	BuyerID   uint      `json:"buyer_id"`
	CreatedAt time.Time `json:"created_at"`
	Lines     []*Line   `json:"lines"`
}

// Line references live inventory; price and stock here are the ledger's
// current values at read time, never a snapshot.
type Line struct {
	ID          uint      `json:"id"`
	CartID      uint      `json:"cart_id"`
	InventoryID uint      `json:"inventory_id"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	ProductName string          `json:"product_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Stock       int             `json:"stock"`
}

type AddParams struct {
	BuyerID     uint
	InventoryID uint
	Quantity    int
}

type UpdateParams struct {
	BuyerID     uint
	InventoryID uint
	Quantity    int
}

type RemoveParams struct {
	BuyerID     uint
	InventoryID uint
}
