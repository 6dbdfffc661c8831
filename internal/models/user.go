package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account or a friend added by name.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// AvatarURL is a reference to the user's profile picture.
	AvatarURL string `json:"avatar_url,omitempty"`

	// Email is the user's email address (unique when set).
	// Used for login; friends added by name may not have one.
	Email string `json:"email,omitempty"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for friend records that never registered. Never serialized.
	PasswordHash string `json:"-"`

	// FriendIDs lists the user's friends. The relation is symmetric:
	// adding a friend records the link on both sides.
	FriendIDs []string `json:"friend_ids"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `json:"created_at"`
}

// NewUser creates a user with a fresh ID and creation timestamp.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// HasFriend reports whether id is in the user's friend list.
func (u *User) HasFriend(id string) bool {
	for _, fid := range u.FriendIDs {
		if fid == id {
			return true
		}
	}
	return false
}
