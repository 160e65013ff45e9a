package checkout

import "time"

// Input is what the buyer submits. Address falls back to the profile's
// stored address when empty; offline payment and scheduled delivery only
// apply on pipelines that allow them.
type Input struct {
	Address               string     `json:"address"`
	OfflinePayment        bool       `json:"is_offline_payment"`
	ScheduledDeliveryDate *time.Time `json:"scheduled_delivery_date"`
}
