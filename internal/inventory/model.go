package inventory

import (
	"time"

	"livemart-be/internal/pipeline"

	"github.com/shopspring/decimal"
)

// Record is one sellable offer: a product priced and stocked by exactly one
// seller (retailer or wholesaler).
type Record struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	RetailerID  *uint           `json:"retailer_id,omitempty"`
	WholesalerID *uint          `json:"wholesaler_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`

	AvailableViaWholesaler bool       `json:"available_via_wholesaler"`
	AvailabilityDate       *time.Time `json:"availability_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SellerID returns the owning seller for the given pool.
func (rec *Record) SellerID(kind pipeline.SellerKind) uint {
	switch kind {
	case pipeline.KindWholesaler:
		if rec.WholesalerID != nil {
			return *rec.WholesalerID
		}
	default:
		if rec.RetailerID != nil {
			return *rec.RetailerID
		}
	}
	return 0
}

type CreateParams struct {
	ProductID uint
	Kind      pipeline.SellerKind
	SellerID  uint
	Price     decimal.Decimal
	Stock     int

	AvailableViaWholesaler bool
	AvailabilityDate       *time.Time
}

type UpdateParams struct {
	Kind     pipeline.SellerKind
	SellerID uint

	Price            *decimal.Decimal
	Stock            *int
	AvailabilityDate *time.Time
}
