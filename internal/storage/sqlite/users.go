package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitit/splitit/internal/models"
	"github.com/splitit/splitit/internal/storage"
)

// CreateUser inserts a new user and their friend links.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, name, avatar_url, email, phone, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.AvatarURL, user.Email, user.Phone, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	for _, friendID := range user.FriendIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO friends (user_id, friend_id) VALUES (?, ?)",
			user.ID, friendID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert friend link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateUser replaces a user's profile fields and friend links.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET name = ?, avatar_url = ?, email = ?, phone = ?, password_hash = ?
		 WHERE id = ?`,
		user.Name, user.AvatarURL, user.Email, user.Phone, user.PasswordHash, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM friends WHERE user_id = ?", user.ID); err != nil {
		return fmt.Errorf("failed to clear friend links: %w", err)
	}
	for _, friendID := range user.FriendIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO friends (user_id, friend_id) VALUES (?, ?)",
			user.ID, friendID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert friend link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user with their friend links.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, avatar_url, email, phone, password_hash, created_at
		 FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Name, &user.AvatarURL, &email, &user.Phone, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}

	if user.FriendIDs, err = s.friendIDs(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every user with their friend links.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, avatar_url, email, phone, password_hash, created_at
		 FROM users ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var email sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &user.AvatarURL, &email, &user.Phone, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if email.Valid {
			user.Email = email.String
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	for _, user := range users {
		if user.FriendIDs, err = s.friendIDs(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *SQLiteStore) friendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT friend_id FROM friends WHERE user_id = ? ORDER BY friend_id", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend links: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend link: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friend links: %w", err)
	}
	return ids, nil
}
