// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitit/splitit/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence interface for the four ledger collections.
// This abstraction allows swapping storage backends without changing the
// service layer. Implementations return copies; callers treat everything
// they read as an immutable snapshot.
type Store interface {
	// CreateUser persists a new user. Missing ID and CreatedAt fields
	// are populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUser replaces an existing user record, friend links included.
	UpdateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email address.
	// Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers returns every user.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateGroup persists a new group and its membership.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Returns ErrNotFound if absent.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroups returns every group.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers appends user IDs to a group's membership.
	// Existing members are left untouched; membership never shrinks.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// CreateExpense persists a new expense with its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// UpdateExpense replaces an existing expense wholesale.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID. Returns ErrNotFound if absent.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListExpenses returns the full expense ledger.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// CreatePayment appends a payment to the ledger.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments returns the full payment ledger.
	ListPayments(ctx context.Context) ([]*models.Payment, error)

	// Close releases any resources held by the store.
	Close() error
}
