package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitit/splitit/internal/auth"
	"github.com/splitit/splitit/internal/storage/sqlite"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitit-auth-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(authenticator, jwtManager)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "Alice", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatal("expected a user ID and a session token")
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}

	loggedIn, token, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Errorf("Login returned user %s, want %s", loggedIn.ID, user.ID)
	}
}

func TestAuthRejections(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "bob@example.com", "Bob", "short"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Errorf("Register error = %v, want ErrWeakPassword", err)
	}

	if _, _, err := svc.Register(ctx, "bob@example.com", "Bob", "long-enough"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, "bob@example.com", "Other Bob", "long-enough"); !errors.Is(err, auth.ErrEmailExists) {
		t.Errorf("Register error = %v, want ErrEmailExists", err)
	}

	// Wrong passwords and unknown emails look identical to the caller.
	_, _, wrongPass := svc.Login(ctx, "bob@example.com", "wrong-password")
	_, _, unknown := svc.Login(ctx, "nobody@example.com", "long-enough")
	if !errors.Is(wrongPass, auth.ErrInvalidCredentials) || !errors.Is(unknown, auth.ErrInvalidCredentials) {
		t.Errorf("login failures = %v / %v, want ErrInvalidCredentials for both", wrongPass, unknown)
	}
}
