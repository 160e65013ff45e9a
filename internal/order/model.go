package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// orderFlow is the forward chain; CANCELLED is reachable from any
// non-terminal status.
var orderFlow = map[Status]Status{
	StatusPending: StatusPaid,
	StatusPaid:    StatusShipped,
	StatusShipped: StatusDelivered,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to the
// next. Only the single forward step or cancellation of a non-terminal
// order is legal.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if to == StatusCancelled {
		return !from.Terminal()
	}
	return orderFlow[from] == to
}

type ItemStatus string

const (
	ItemPending    ItemStatus = "PENDING"
	ItemProcessing ItemStatus = "PROCESSING"
	ItemShipped    ItemStatus = "SHIPPED"
	ItemDelivered  ItemStatus = "DELIVERED"
	ItemCancelled  ItemStatus = "CANCELLED"
)

var itemFlow = map[ItemStatus]ItemStatus{
	ItemPending:    ItemProcessing,
	ItemProcessing: ItemShipped,
	ItemShipped:    ItemDelivered,
}

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemProcessing, ItemShipped, ItemDelivered, ItemCancelled:
		return true
	}
	return false
}

func (s ItemStatus) Terminal() bool {
	return s == ItemDelivered || s == ItemCancelled
}

// CanTransitionItem guards the per-item machine the same way CanTransition
// guards the order machine.
func CanTransitionItem(from, to ItemStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if to == ItemCancelled {
		return !from.Terminal()
	}
	return itemFlow[from] == to
}

type Order struct {
	ID                    uint            `json:"id"`
	ExternalID            uuid.UUID       `json:"external_id"`
	BuyerID               uint            `json:"buyer_id"`
	InvoiceNumber         string          `json:"invoice_number"`
	Status                Status          `json:"status"`
	TotalPrice            decimal.Decimal `json:"total_price"`
	Address               string          `json:"address"`
	OfflinePayment        bool            `json:"is_offline_payment"`
	ScheduledDeliveryDate *time.Time      `json:"scheduled_delivery_date,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Items []*Item `json:"items,omitempty"`
}

// Item carries the price snapshot taken at checkout. PriceAtPurchase never
// tracks later ledger price changes.
type Item struct {
	ID              uint            `json:"id"`
	OrderID         uint            `json:"order_id"`
	InventoryID     uint            `json:"inventory_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Status          ItemStatus      `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ListParams struct {
	BuyerID uint
	Status  *Status
	Limit   int
	Page    int
}
