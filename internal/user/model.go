package user

import "time"

const (
	RoleCustomer   = "CUSTOMER"
	RoleRetailer   = "RETAILER"
	RoleWholesaler = "WHOLESALER"
)

// Profiles are keyed by user id: one user, one role, one profile.

type CustomerProfile struct {
	UserID      uint     `json:"user_id"`
	PhoneNumber *string  `json:"phone_number"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}

type RetailerProfile struct {
	UserID      uint     `json:"user_id"`
	ShopName    string   `json:"shop_name"`
	ShopAddress string   `json:"shop_address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}

type WholesalerProfile struct {
	UserID           uint     `json:"user_id"`
	BusinessName     string   `json:"business_name"`
	WarehouseAddress string   `json:"warehouse_address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	CreatedAt        time.Time `json:"created_at"`
}

type UpdateCustomerProfileInput struct {
	PhoneNumber *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
}
