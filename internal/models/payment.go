package models

// Payment represents money that already changed hands directly between two
// users, recorded to settle part or all of a computed balance. Payments are
// never scoped to a group: settling up applies to the overall relationship.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// FromUserID is the user who sent the money.
	FromUserID string `json:"from_user_id"`

	// ToUserID is the user who received it.
	ToUserID string `json:"to_user_id"`

	// Amount is the payment amount, positive.
	Amount float64 `json:"amount"`

	// Date is the Unix timestamp when the payment was made.
	Date int64 `json:"date"`
}
