package domain

// RevenueEntry is one booked day of rent. The (Date, RentalID) pair is unique
// in the ledger: booking the same rental twice on one date is a no-op.
type RevenueEntry struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD in the configured timezone
	RentalID  int64  `json:"rental_id"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}
