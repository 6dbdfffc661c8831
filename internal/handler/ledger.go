package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/splitit/splitit/internal/calculator"
	"github.com/splitit/splitit/internal/middleware"
	"github.com/splitit/splitit/internal/service"
)

// ListUsers returns every known user.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.ledger.Users(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createFriendRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`

	// UserID links an existing user instead of creating a new record.
	UserID string `json:"user_id"`
}

// CreateFriend links a friend to the viewer, creating the user record first
// when the friend has no account.
func (h *Handler) CreateFriend(w http.ResponseWriter, r *http.Request) {
	var req createFriendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	viewerID := middleware.GetUserID(r.Context())

	if req.UserID != "" {
		if err := h.ledger.AddFriend(r.Context(), viewerID, req.UserID); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	friend, err := h.ledger.CreateFriend(r.Context(), viewerID, req.Name, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, friend)
}

// ListGroups returns every group.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.ledger.Groups(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

// CreateGroup creates a group with the viewer as a member.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	group, err := h.ledger.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.MemberIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

type addMembersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// AddGroupMembers grows a group's membership.
func (h *Handler) AddGroupMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	group, err := h.ledger.AddMembersToGroup(r.Context(), mux.Vars(r)["id"], req.UserIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// ListExpenses returns the full expense ledger.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ledger.Expenses(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

type expenseRequest struct {
	Description  string             `json:"description"`
	Amount       float64            `json:"amount"`
	PaidByID     string             `json:"paid_by_id"`
	GroupID      string             `json:"group_id"`
	Date         int64              `json:"date"`
	Category     string             `json:"category"`
	Notes        string             `json:"notes"`
	ReceiptURL   string             `json:"receipt_url"`
	SplitMethod  string             `json:"split_method"`
	SplitWith    []string           `json:"split_with"`
	SplitAmounts map[string]float64 `json:"split_amounts"`
}

func (req expenseRequest) toInput() service.ExpenseInput {
	method := calculator.SplitEqually
	if req.SplitMethod == string(calculator.SplitUnequally) {
		method = calculator.SplitUnequally
	}
	return service.ExpenseInput{
		Description:  req.Description,
		Amount:       req.Amount,
		PaidByID:     req.PaidByID,
		GroupID:      req.GroupID,
		Date:         req.Date,
		Category:     req.Category,
		Notes:        req.Notes,
		ReceiptURL:   req.ReceiptURL,
		SplitMethod:  method,
		SplitWith:    req.SplitWith,
		SplitAmounts: req.SplitAmounts,
	}
}

// CreateExpense validates and appends a new expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidExpense))
		return
	}
	if req.PaidByID == "" {
		req.PaidByID = middleware.GetUserID(r.Context())
	}

	expense, err := h.ledger.AddExpense(r.Context(), req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

type expenseResponse struct {
	Expense     any    `json:"expense"`
	SplitMethod string `json:"split_method"`
}

// GetExpense returns one expense with its derived split method.
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	expense, method, err := h.ledger.GetExpense(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseResponse{Expense: expense, SplitMethod: string(method)})
}

// UpdateExpense replaces an existing expense wholesale.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidExpense))
		return
	}

	expense, err := h.ledger.UpdateExpense(r.Context(), mux.Vars(r)["id"], req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

type paymentRequest struct {
	ToUserID string  `json:"to_user_id"`
	Amount   float64 `json:"amount"`
	Date     int64   `json:"date"`
}

// CreatePayment records a payment from the viewer to another user.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidPayment))
		return
	}

	payment, err := h.ledger.AddPayment(r.Context(), middleware.GetUserID(r.Context()), req.ToUserID, req.Amount, req.Date)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

type settleRequest struct {
	CounterpartyID string  `json:"counterparty_id"`
	Amount         float64 `json:"amount"`
}

// SettleUp records a settling payment between the viewer and a counterparty,
// in whichever direction the current balance calls for.
func (h *Handler) SettleUp(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", service.ErrInvalidPayment))
		return
	}

	payment, err := h.ledger.SettleUp(r.Context(), middleware.GetUserID(r.Context()), req.CounterpartyID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// Balances computes the viewer's balances, optionally scoped to a group via
// the group_id query parameter.
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledger.Balances(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("group_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

// Activity returns the merged activity feed. Query parameters: start and end
// (Unix seconds), group and participant (comma-separated IDs).
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ActivityFilter{
		GroupIDs:       splitParam(q.Get("group")),
		ParticipantIDs: splitParam(q.Get("participant")),
	}

	var err error
	if filter.StartDate, err = parseUnixParam(q.Get("start")); err != nil {
		respondError(w, fmt.Errorf("%w: bad start timestamp", errBadRequest))
		return
	}
	if filter.EndDate, err = parseUnixParam(q.Get("end")); err != nil {
		respondError(w, fmt.Errorf("%w: bad end timestamp", errBadRequest))
		return
	}

	items, err := h.ledger.Activity(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseUnixParam(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
