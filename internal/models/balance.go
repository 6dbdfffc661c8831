package models

// Balance is one counterparty's net position against a viewer.
//
// Positive means the counterparty owes the viewer; negative means the viewer
// owes the counterparty. Balances are derived fresh on every query and never
// persisted. Near-zero balances (magnitude below 0.005) are omitted from
// results entirely.
type Balance struct {
	// UserID is the counterparty.
	UserID string `json:"user_id"`

	// Amount is the signed net balance.
	Amount float64 `json:"amount"`
}
