package calculator

import (
	"fmt"
	"math"

	"github.com/splitit/splitit/internal/models"
)

// Tolerance for comparing split amounts and totals: anything within one cent
// counts as equal.
const centTolerance = 0.01

// SplitMethod tells how an expense's total was divided.
type SplitMethod string

const (
	SplitEqually   SplitMethod = "equally"
	SplitUnequally SplitMethod = "unequally"
)

// EqualSplits divides total across userIDs so the shares sum to total
// exactly. Each share is total/n truncated to cents; the leftover cents go
// to the first participant in input order.
func EqualSplits(total float64, userIDs []string) ([]models.Split, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	// The 1e-9 nudge keeps floating-point representations like
	// 1.3399999... from truncating a cent below the true share.
	share := math.Floor(total/float64(len(userIDs))*100+1e-9) / 100
	splits := make([]models.Split, len(userIDs))
	for i, id := range userIDs {
		splits[i] = models.Split{UserID: id, Amount: share}
	}

	residual := total - share*float64(len(userIDs))
	if residual != 0 {
		// Re-round through cents to keep the sum exact.
		splits[0].Amount = math.Round((share+residual)*100) / 100
	}
	return splits, nil
}

// CustomSplits builds splits from caller-supplied per-user amounts. The
// amounts must sum to total within one cent; zero-amount entries are dropped.
func CustomSplits(total float64, amounts map[string]float64, userIDs []string) ([]models.Split, error) {
	var sum float64
	for _, id := range userIDs {
		sum += amounts[id]
	}
	if math.Abs(sum-total) >= centTolerance {
		return nil, fmt.Errorf("split amounts sum to %.2f, expense total is %.2f", sum, total)
	}

	splits := make([]models.Split, 0, len(userIDs))
	for _, id := range userIDs {
		if amounts[id] > 0 {
			splits = append(splits, models.Split{UserID: id, Amount: amounts[id]})
		}
	}
	if len(splits) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	return splits, nil
}

// ClassifySplits re-derives how an existing expense was divided, for editing.
// If any two split amounts differ by more than one cent the expense was split
// unequally; otherwise it is treated as equal.
func ClassifySplits(splits []models.Split) SplitMethod {
	if len(splits) < 2 {
		return SplitEqually
	}
	min, max := splits[0].Amount, splits[0].Amount
	for _, s := range splits[1:] {
		if s.Amount < min {
			min = s.Amount
		}
		if s.Amount > max {
			max = s.Amount
		}
	}
	if max-min > centTolerance {
		return SplitUnequally
	}
	return SplitEqually
}

// ValidateSplits checks the construction-time invariants of an expense's
// splits: at least one, no duplicate users, no negative shares, and a sum
// within one cent of the total.
func ValidateSplits(total float64, splits []models.Split) error {
	if len(splits) == 0 {
		return fmt.Errorf("must have at least one participant")
	}
	seen := make(map[string]bool, len(splits))
	var sum float64
	for _, s := range splits {
		if seen[s.UserID] {
			return fmt.Errorf("duplicate split for user %s", s.UserID)
		}
		seen[s.UserID] = true
		if s.Amount < 0 {
			return fmt.Errorf("split amount for user %s is negative", s.UserID)
		}
		sum += s.Amount
	}
	if math.Abs(sum-total) >= centTolerance {
		return fmt.Errorf("split amounts sum to %.2f, expense total is %.2f", sum, total)
	}
	return nil
}
