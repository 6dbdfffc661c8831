// Package service implements the application API on top of storage: ledger
// mutations, view-scoped balance queries, and the activity feed.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/splitit/splitit/internal/calculator"
	"github.com/splitit/splitit/internal/metrics"
	"github.com/splitit/splitit/internal/models"
	"github.com/splitit/splitit/internal/storage"
)

var (
	// ErrInvalidExpense marks expense submissions rejected at entry time.
	ErrInvalidExpense = errors.New("invalid expense")
	// ErrInvalidPayment marks payment submissions rejected at entry time.
	ErrInvalidPayment = errors.New("invalid payment")
	// ErrNotGroupMember is returned when a viewer queries a group they do
	// not belong to.
	ErrNotGroupMember = errors.New("viewer is not a member of this group")
)

// LedgerService owns the four collections behind the store and exposes the
// mutation API plus derived queries. The viewpoint is always an explicit
// parameter; the service holds no current-user state.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// ExpenseInput carries a submitted expense before splits are constructed.
type ExpenseInput struct {
	Description string
	Amount      float64
	PaidByID    string
	GroupID     string
	Date        int64
	Category    string
	Notes       string
	ReceiptURL  string

	// SplitMethod selects equal or unequal division across SplitWith.
	SplitMethod calculator.SplitMethod

	// SplitWith lists the selected participants in selection order; with
	// an equal split the first one absorbs any leftover cent.
	SplitWith []string

	// SplitAmounts holds the per-user amounts for an unequal split.
	SplitAmounts map[string]float64
}

// buildSplits constructs and validates the splits for an input. On success
// the splits sum to the expense amount within one cent.
func buildSplits(in ExpenseInput) ([]models.Split, error) {
	var (
		splits []models.Split
		err    error
	)
	switch in.SplitMethod {
	case calculator.SplitUnequally:
		splits, err = calculator.CustomSplits(in.Amount, in.SplitAmounts, in.SplitWith)
	default:
		splits, err = calculator.EqualSplits(in.Amount, in.SplitWith)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	}
	if err := calculator.ValidateSplits(in.Amount, splits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	}
	return splits, nil
}

func validateExpenseInput(in ExpenseInput) error {
	if in.Description == "" {
		return fmt.Errorf("%w: description required", ErrInvalidExpense)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if in.PaidByID == "" {
		return fmt.Errorf("%w: payer required", ErrInvalidExpense)
	}
	if len(in.SplitWith) == 0 {
		return fmt.Errorf("%w: select at least one person to split with", ErrInvalidExpense)
	}
	return nil
}

// AddExpense validates a submission, constructs its splits, and appends the
// expense to the ledger. Rejected submissions never reach the ledger.
func (s *LedgerService) AddExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(in); err != nil {
		metrics.RejectedSubmissions.Inc()
		return nil, err
	}
	splits, err := buildSplits(in)
	if err != nil {
		metrics.RejectedSubmissions.Inc()
		return nil, err
	}

	expense := &models.Expense{
		Description: in.Description,
		Amount:      in.Amount,
		PaidByID:    in.PaidByID,
		GroupID:     in.GroupID,
		Date:        in.Date,
		Splits:      splits,
		Category:    models.NormalizeCategory(in.Category),
		Notes:       in.Notes,
		ReceiptURL:  in.ReceiptURL,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	metrics.ExpensesCreated.Inc()
	slog.Info("Expense added", "expense_id", expense.ID, "amount", expense.Amount, "group_id", expense.GroupID)
	return expense, nil
}

// UpdateExpense re-validates and replaces an existing expense wholesale.
func (s *LedgerService) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(in); err != nil {
		metrics.RejectedSubmissions.Inc()
		return nil, err
	}
	splits, err := buildSplits(in)
	if err != nil {
		metrics.RejectedSubmissions.Inc()
		return nil, err
	}

	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:          existing.ID,
		Description: in.Description,
		Amount:      in.Amount,
		PaidByID:    in.PaidByID,
		GroupID:     in.GroupID,
		Date:        existing.Date,
		Splits:      splits,
		Category:    models.NormalizeCategory(in.Category),
		Notes:       in.Notes,
		ReceiptURL:  in.ReceiptURL,
	}
	if in.Date != 0 {
		expense.Date = in.Date
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)
	return expense, nil
}

// GetExpense returns an expense along with its re-derived split method, so
// an editor can surface equal splits as equal and unequal ones per user.
func (s *LedgerService) GetExpense(ctx context.Context, id string) (*models.Expense, calculator.SplitMethod, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return expense, calculator.ClassifySplits(expense.Splits), nil
}

// AddPayment records a direct payment between two users.
func (s *LedgerService) AddPayment(ctx context.Context, fromUserID, toUserID string, amount float64, date int64) (*models.Payment, error) {
	if amount <= 0 {
		metrics.RejectedSubmissions.Inc()
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if fromUserID == "" || toUserID == "" || fromUserID == toUserID {
		metrics.RejectedSubmissions.Inc()
		return nil, fmt.Errorf("%w: payer and recipient must be two distinct users", ErrInvalidPayment)
	}

	payment := &models.Payment{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		Date:       date,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	metrics.PaymentsCreated.Inc()
	slog.Info("Payment recorded", "payment_id", payment.ID, "from", fromUserID, "to", toUserID, "amount", amount)
	return payment, nil
}

// SettleUp records a payment between the viewer and a counterparty, deriving
// the direction from the sign of their current global balance: a negative
// balance means the viewer owes and pays, a positive one means the
// counterparty pays.
func (s *LedgerService) SettleUp(ctx context.Context, viewerID, counterpartyID string, amount float64) (*models.Payment, error) {
	balances, err := s.Balances(ctx, viewerID, "")
	if err != nil {
		return nil, err
	}

	var current float64
	for _, b := range balances {
		if b.UserID == counterpartyID {
			current = b.Amount
			break
		}
	}

	from, to := counterpartyID, viewerID
	if current < 0 {
		from, to = viewerID, counterpartyID
	}
	return s.AddPayment(ctx, from, to, amount, time.Now().Unix())
}

// Balances computes the viewer's per-counterparty balances.
//
// With an empty groupID this is the dashboard viewpoint: the participant set
// is the viewer plus their friends, every expense involving the viewer
// counts, and payments apply. With a groupID it is the group viewpoint: the
// participant set is the group's members, only that group's expenses count,
// and payments are excluded entirely.
func (s *LedgerService) Balances(ctx context.Context, viewerID, groupID string) ([]models.Balance, error) {
	var (
		participants []string
		payments     []*models.Payment
		scope        = "global"
	)

	if groupID == "" {
		viewer, err := s.store.GetUserByID(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		participants = append([]string{viewer.ID}, viewer.FriendIDs...)
		if payments, err = s.store.ListPayments(ctx); err != nil {
			return nil, err
		}
	} else {
		scope = "group"
		group, err := s.store.GetGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(viewerID) {
			return nil, ErrNotGroupMember
		}
		participants = group.MemberIDs
	}

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	snapshotE := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		snapshotE = append(snapshotE, *e)
	}
	snapshotP := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		snapshotP = append(snapshotP, *p)
	}

	metrics.BalanceQueries.WithLabelValues(scope).Inc()
	return calculator.ComputeBalances(viewerID, participants, snapshotE, snapshotP, groupID), nil
}

// ActivityFilter narrows the merged activity feed. Zero values mean "no
// restriction" for each field.
type ActivityFilter struct {
	// StartDate and EndDate bound the occurrence timestamp, inclusive.
	StartDate int64
	EndDate   int64

	// GroupIDs keeps only expenses in the named groups. Payments never
	// belong to a group, so any group filter excludes them.
	GroupIDs []string

	// ParticipantIDs keeps items involving at least one of the named
	// users.
	ParticipantIDs []string
}

func (f ActivityFilter) matches(item models.ActivityItem) bool {
	date := item.Date()
	if f.StartDate != 0 && date < f.StartDate {
		return false
	}
	if f.EndDate != 0 && date > f.EndDate {
		return false
	}

	if len(f.GroupIDs) > 0 {
		if item.Kind != models.ActivityExpense {
			return false
		}
		found := false
		for _, gid := range f.GroupIDs {
			if item.Expense.GroupID == gid {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.ParticipantIDs) > 0 {
		found := false
		for _, pid := range f.ParticipantIDs {
			if item.Involves(pid) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Activity merges expenses and payments into one feed, filtered and sorted
// newest first.
func (s *LedgerService) Activity(ctx context.Context, filter ActivityFilter) ([]models.ActivityItem, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.ActivityItem, 0, len(expenses)+len(payments))
	for _, e := range expenses {
		item := models.ActivityItem{Kind: models.ActivityExpense, Expense: e}
		if filter.matches(item) {
			items = append(items, item)
		}
	}
	for _, p := range payments {
		item := models.ActivityItem{Kind: models.ActivityPayment, Payment: p}
		if filter.matches(item) {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date() > items[j].Date()
	})
	return items, nil
}

// AddFriend links an existing user as the viewer's friend, recording the
// relation on both sides.
func (s *LedgerService) AddFriend(ctx context.Context, viewerID, friendID string) error {
	if viewerID == friendID {
		return fmt.Errorf("cannot befriend yourself")
	}
	viewer, err := s.store.GetUserByID(ctx, viewerID)
	if err != nil {
		return err
	}
	friend, err := s.store.GetUserByID(ctx, friendID)
	if err != nil {
		return err
	}

	if !viewer.HasFriend(friend.ID) {
		viewer.FriendIDs = append(viewer.FriendIDs, friend.ID)
		if err := s.store.UpdateUser(ctx, viewer); err != nil {
			return err
		}
	}
	if !friend.HasFriend(viewer.ID) {
		friend.FriendIDs = append(friend.FriendIDs, viewer.ID)
		if err := s.store.UpdateUser(ctx, friend); err != nil {
			return err
		}
	}
	return nil
}

// CreateFriend creates a new user record by name and links them as the
// viewer's friend in one step, for friends who never registered themselves.
func (s *LedgerService) CreateFriend(ctx context.Context, viewerID, name, email string) (*models.User, error) {
	if name == "" {
		return nil, fmt.Errorf("friend name required")
	}
	friend := &models.User{
		Name:      name,
		Email:     email,
		AvatarURL: fmt.Sprintf("https://picsum.photos/seed/%s/100", name),
	}
	if err := s.store.CreateUser(ctx, friend); err != nil {
		return nil, fmt.Errorf("failed to create friend: %w", err)
	}
	if err := s.AddFriend(ctx, viewerID, friend.ID); err != nil {
		return nil, err
	}
	return friend, nil
}

// CreateGroup creates a group. The creator is always a member, whether or
// not they appear in memberIDs.
func (s *LedgerService) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name required")
	}

	members := []string{creatorID}
	for _, id := range memberIDs {
		if id != creatorID {
			members = append(members, id)
		}
	}

	group := &models.Group{Name: name, MemberIDs: members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	slog.Info("Group created", "group_id", group.ID, "name", name, "members", len(members))
	return group, nil
}

// AddMembersToGroup grows a group's membership.
func (s *LedgerService) AddMembersToGroup(ctx context.Context, groupID string, userIDs []string) (*models.Group, error) {
	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

// Users returns every known user.
func (s *LedgerService) Users(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// Groups returns every group.
func (s *LedgerService) Groups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// Expenses returns the full expense ledger.
func (s *LedgerService) Expenses(ctx context.Context) ([]*models.Expense, error) {
	return s.store.ListExpenses(ctx)
}
