package domain

import "time"

// RentalWindow is the length of one billing period. Renewal extends the
// current window by exactly this much.
const RentalWindow = 24 * time.Hour

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

type DeliveryType string

const (
	DeliveryPickup  DeliveryType = "pickup"
	DeliveryCourier DeliveryType = "delivery"
)

// Rental is one physical tool currently or formerly checked out.
// StartTime anchors the CURRENT 24-hour billing window, not the original
// checkout instant: renewal moves it forward.
type Rental struct {
	ID            int64         `json:"id"`
	ToolName      string        `json:"tool_name"`
	RentPrice     int64         `json:"rent_price"`
	StartTime     int64         `json:"start_time"`
	UserID        int64         `json:"user_id"`
	Active        bool          `json:"active"`
	Deposit       int64         `json:"deposit"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	DeliveryType  DeliveryType  `json:"delivery_type"`
	Address       string        `json:"address"`
	CreatedOn     time.Time     `json:"created_on"`
	UpdatedOn     time.Time     `json:"updated_on"`
}

// Deadline is the instant the current billing window elapses.
func (r *Rental) Deadline() time.Time {
	return time.Unix(r.StartTime, 0).Add(RentalWindow)
}

// NextStart computes the window anchor after a renewal at the given instant.
// Renewing before the deadline keeps the remaining time (the new deadline is
// the old deadline plus 24h); renewing after expiry restarts a fresh window
// from now rather than stacking missed time.
func (r *Rental) NextStart(now time.Time) int64 {
	deadline := r.Deadline()
	if now.Before(deadline) {
		return deadline.Unix()
	}
	return now.Unix()
}
