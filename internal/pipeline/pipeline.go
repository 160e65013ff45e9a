package pipeline

// SellerKind tags which seller pool an inventory row belongs to.
type SellerKind string

const (
	KindRetailer   SellerKind = "RETAILER"
	KindWholesaler SellerKind = "WHOLESALER"
)

// SellerColumn is the inventories FK column holding this kind of seller.
func (k SellerKind) SellerColumn() string {
	if k == KindWholesaler {
		return "wholesaler_id"
	}
	return "retailer_id"
}

// Pipeline describes one checkout flow: which buyer role buys from which
// seller pool, and which tables hold its carts and orders. The retail and
// wholesale flows run the exact same engine code over different descriptors.
type Pipeline struct {
	Name string
	Kind SellerKind

	CartTable     string
	CartItemTable string
	OrderTable    string
	OrderItemTable string

	// BuyerColumn is the FK column naming the buyer on carts and orders.
	BuyerColumn string

	// AddressColumn is the snapshot column on the order row.
	AddressColumn string

	BuyerRole  string
	SellerRole string

	// OfflinePayment marks flows that may record an offline payment and a
	// scheduled delivery date on the order.
	OfflinePayment bool
}

// Retail: customers buying from retailer-backed inventory.
var Retail = Pipeline{
	Name:           "retail",
	Kind:           KindRetailer,
	CartTable:      "carts",
	CartItemTable:  "cart_items",
	OrderTable:     "orders",
	OrderItemTable: "order_items",
	BuyerColumn:    "customer_id",
	AddressColumn:  "shipping_address",
	BuyerRole:      "CUSTOMER",
	SellerRole:     "RETAILER",
	OfflinePayment: true,
}

// Wholesale: retailers restocking from wholesaler-backed inventory.
var Wholesale = Pipeline{
	Name:           "wholesale",
	Kind:           KindWholesaler,
	CartTable:      "wholesale_carts",
	CartItemTable:  "wholesale_cart_items",
	OrderTable:     "wholesale_orders",
	OrderItemTable: "wholesale_order_items",
	BuyerColumn:    "retailer_id",
	AddressColumn:  "delivery_address",
	BuyerRole:      "RETAILER",
	SellerRole:     "WHOLESALER",
}
