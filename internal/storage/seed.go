package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/splitit/splitit/internal/models"
)

// Seed populates an empty store with the fixed starter dataset so a fresh
// install has something to show. It is a no-op when any users already exist,
// so a store that fails to load and is recreated falls back to the same
// known state every time.
func Seed(ctx context.Context, store Store) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed: list users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	now := time.Now().Unix()
	seedUsers := []*models.User{
		{ID: "user1", Name: "You", AvatarURL: "https://picsum.photos/seed/you/100", FriendIDs: []string{"user2", "user3", "user4"}, CreatedAt: now},
		{ID: "user2", Name: "Alice", AvatarURL: "https://picsum.photos/seed/alice/100", FriendIDs: []string{"user1"}, CreatedAt: now},
		{ID: "user3", Name: "Bob", AvatarURL: "https://picsum.photos/seed/bob/100", FriendIDs: []string{"user1"}, CreatedAt: now},
		{ID: "user4", Name: "Charlie", AvatarURL: "https://picsum.photos/seed/charlie/100", FriendIDs: []string{"user1"}, CreatedAt: now},
	}
	// Two passes: friend links reference other users, so all user rows
	// must exist before any link does.
	for _, u := range seedUsers {
		bare := *u
		bare.FriendIDs = nil
		if err := store.CreateUser(ctx, &bare); err != nil {
			return fmt.Errorf("seed: create user %s: %w", u.Name, err)
		}
	}
	for _, u := range seedUsers {
		if err := store.UpdateUser(ctx, u); err != nil {
			return fmt.Errorf("seed: link friends for %s: %w", u.Name, err)
		}
	}

	seedGroups := []*models.Group{
		{ID: "group1", Name: "Trip to Bali", MemberIDs: []string{"user1", "user2", "user3"}, CreatedAt: now},
		{ID: "group2", Name: "Apartment", MemberIDs: []string{"user1", "user4"}, CreatedAt: now},
	}
	for _, g := range seedGroups {
		if err := store.CreateGroup(ctx, g); err != nil {
			return fmt.Errorf("seed: create group %s: %w", g.Name, err)
		}
	}

	seedExpenses := []*models.Expense{
		{
			ID:          "exp1",
			Description: "Flights",
			Amount:      600,
			PaidByID:    "user1",
			GroupID:     "group1",
			Date:        time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC).Unix(),
			Category:    "Travel",
			Splits: []models.Split{
				{UserID: "user1", Amount: 200},
				{UserID: "user2", Amount: 200},
				{UserID: "user3", Amount: 200},
			},
		},
		{
			ID:          "exp2",
			Description: "Dinner",
			Amount:      90,
			PaidByID:    "user2",
			GroupID:     "group1",
			Date:        time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC).Unix(),
			Category:    "Food & Drink",
			Splits: []models.Split{
				{UserID: "user1", Amount: 30},
				{UserID: "user2", Amount: 30},
				{UserID: "user3", Amount: 30},
			},
		},
		{
			ID:          "exp3",
			Description: "Rent",
			Amount:      1000,
			PaidByID:    "user4",
			GroupID:     "group2",
			Date:        time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC).Unix(),
			Category:    "Housing",
			Splits: []models.Split{
				{UserID: "user1", Amount: 500},
				{UserID: "user4", Amount: 500},
			},
		},
	}
	for _, e := range seedExpenses {
		if err := store.CreateExpense(ctx, e); err != nil {
			return fmt.Errorf("seed: create expense %s: %w", e.Description, err)
		}
	}

	return nil
}
