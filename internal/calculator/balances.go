// Package calculator implements the pure balance and split math.
//
// Nothing here touches storage or does I/O: callers hand in snapshots of the
// ledger and get derived values back.
package calculator

import (
	"math"
	"sort"

	"github.com/splitit/splitit/internal/models"
)

// Epsilon below which a computed balance counts as settled and is omitted
// from results. Chosen above float64 accumulation drift but well below one
// cent.
const balanceEpsilon = 0.005

// ComputeBalances derives the net balance between viewerID and every other
// user in participants, from the given expense and payment ledgers.
//
// Sign convention: positive means the counterparty owes the viewer, negative
// means the viewer owes the counterparty.
//
// When groupID is non-empty the computation restricts itself to that group's
// expenses and ignores payments entirely: settling up by direct payment
// applies to the overall relationship between two people, not to any one
// group. Callers may pre-filter expenses; the group filter is applied here
// again regardless.
//
// Contributions from users outside participants are dropped, and balances
// whose magnitude never exceeds the settled threshold are omitted. The
// result is sorted by counterparty ID. Malformed input never produces an
// error, only absent entries.
func ComputeBalances(viewerID string, participants []string, expenses []models.Expense, payments []models.Payment, groupID string) []models.Balance {
	running := make(map[string]float64, len(participants))
	for _, id := range participants {
		if id != viewerID {
			running[id] = 0
		}
	}

	// add mutates only seeded counterparties, so splits or payments that
	// reference users outside the participant set fall away silently.
	add := func(userID string, delta float64) {
		if _, ok := running[userID]; ok {
			running[userID] += delta
		}
	}

	for i := range expenses {
		e := &expenses[i]
		if groupID != "" && e.GroupID != groupID {
			continue
		}

		if e.PaidByID == viewerID {
			// Every other splittee owes the viewer their share. The
			// viewer's own share, if any, nets to zero and touches
			// nobody's balance.
			for _, s := range e.Splits {
				if s.UserID != viewerID {
					add(s.UserID, s.Amount)
				}
			}
		} else if mine, ok := e.SplitFor(viewerID); ok {
			// Someone else paid and the viewer consumed a share:
			// the viewer owes the payer that amount.
			add(e.PaidByID, -mine.Amount)
		}
		// Neither payer nor splittee: the expense is between other
		// parties and invisible from this viewpoint.
	}

	if groupID == "" {
		for _, p := range payments {
			switch {
			case p.FromUserID == viewerID && p.ToUserID != viewerID:
				// Viewer paid the counterparty: what the viewer
				// owes them shrinks.
				add(p.ToUserID, p.Amount)
			case p.ToUserID == viewerID && p.FromUserID != viewerID:
				// Counterparty paid the viewer: what they owe
				// the viewer shrinks.
				add(p.FromUserID, -p.Amount)
			}
		}
	}

	balances := make([]models.Balance, 0, len(running))
	for userID, amount := range running {
		if math.Abs(amount) > balanceEpsilon {
			balances = append(balances, models.Balance{UserID: userID, Amount: amount})
		}
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].UserID < balances[j].UserID
	})
	return balances
}
