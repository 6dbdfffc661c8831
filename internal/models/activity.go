package models

// ActivityKind discriminates the two cases of an ActivityItem.
type ActivityKind string

const (
	ActivityExpense ActivityKind = "expense"
	ActivityPayment ActivityKind = "payment"
)

// ActivityItem is one entry in the merged activity feed: either an expense
// or a payment. Exactly one of Expense and Payment is non-nil, matching Kind.
type ActivityItem struct {
	Kind    ActivityKind `json:"kind"`
	Expense *Expense     `json:"expense,omitempty"`
	Payment *Payment     `json:"payment,omitempty"`
}

// Date returns the occurrence timestamp of whichever case is set.
func (a ActivityItem) Date() int64 {
	if a.Kind == ActivityExpense && a.Expense != nil {
		return a.Expense.Date
	}
	if a.Payment != nil {
		return a.Payment.Date
	}
	return 0
}

// Involves reports whether userID took part in the item: payer or splittee
// for an expense, sender or recipient for a payment.
func (a ActivityItem) Involves(userID string) bool {
	switch a.Kind {
	case ActivityExpense:
		if a.Expense == nil {
			return false
		}
		if a.Expense.PaidByID == userID {
			return true
		}
		_, ok := a.Expense.SplitFor(userID)
		return ok
	case ActivityPayment:
		if a.Payment == nil {
			return false
		}
		return a.Payment.FromUserID == userID || a.Payment.ToUserID == userID
	}
	return false
}
