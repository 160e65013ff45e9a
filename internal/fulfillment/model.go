package fulfillment

import (
	"time"

	"livemart-be/internal/order"

	"github.com/shopspring/decimal"
)

// QueueItem is one order item as the fulfilling seller sees it: the item
// itself plus the order context needed to pack and ship it.
type QueueItem struct {
	ItemID          uint             `json:"item_id"`
	OrderID         uint             `json:"order_id"`
	InvoiceNumber   string           `json:"invoice_number"`
	BuyerID         uint             `json:"buyer_id"`
	SellerID        uint             `json:"-"`
	ProductName     string           `json:"product_name"`
	Quantity        int              `json:"quantity"`
	PriceAtPurchase decimal.Decimal  `json:"price_at_purchase"`
	Status          order.ItemStatus `json:"status"`
	OrderStatus     order.Status     `json:"order_status"`
	Address         string           `json:"address"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type QueueParams struct {
	SellerID uint
	Status   *order.ItemStatus
	Limit    int
	Page     int
}
