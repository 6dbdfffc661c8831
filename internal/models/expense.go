package models

// Categories an expense can be filed under. The first entry is the default.
var ExpenseCategories = []string{
	"General",
	"Food & Drink",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Utilities",
	"Housing",
	"Travel",
}

// NormalizeCategory maps an unknown category to the default.
func NormalizeCategory(category string) string {
	for _, c := range ExpenseCategories {
		if c == category {
			return c
		}
	}
	return ExpenseCategories[0]
}

// Split is one participant's assigned share of a shared expense.
type Split struct {
	// UserID identifies the participant. No two splits of the same
	// expense may carry the same UserID.
	UserID string `json:"user_id"`

	// Amount is the participant's share, non-negative.
	Amount float64 `json:"amount"`
}

// Expense represents money one user paid that is shared across participants.
//
// Invariant: the split amounts sum to Amount within one cent. The invariant
// is enforced when the expense is constructed, not re-checked by readers.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable label (e.g. "Dinner").
	Description string `json:"description"`

	// Amount is the total paid, positive, two-decimal currency semantics.
	Amount float64 `json:"amount"`

	// PaidByID is the user who fronted the money.
	PaidByID string `json:"paid_by_id"`

	// GroupID scopes the expense to a group. Empty means a personal
	// expense between the payer and friends, not tied to any group.
	GroupID string `json:"group_id,omitempty"`

	// Date is the Unix timestamp when the expense occurred.
	Date int64 `json:"date"`

	// Splits divides Amount across the participants. Order carries no
	// meaning for balance computation.
	Splits []Split `json:"splits"`

	// Category is one of ExpenseCategories.
	Category string `json:"category"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`

	// ReceiptURL is an optional reference to a receipt image.
	ReceiptURL string `json:"receipt_url,omitempty"`
}

// SplitFor returns the split assigned to userID and whether one exists.
func (e *Expense) SplitFor(userID string) (Split, bool) {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s, true
		}
	}
	return Split{}, false
}
