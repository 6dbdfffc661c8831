package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitit/splitit/internal/auth"
	"github.com/splitit/splitit/internal/models"
	"github.com/splitit/splitit/internal/service"
	"github.com/splitit/splitit/internal/storage/sqlite"
)

type testEnv struct {
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitit-handler-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	ledger := service.NewLedgerService(store)
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)

	h := New(ledger, authService)
	server := httptest.NewServer(h.Router(jwtManager))
	t.Cleanup(server.Close)

	return &testEnv{server: server}
}

// call sends a JSON request and decodes the response into out when non-nil.
func (e *testEnv) call(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

// registerUser registers an account and returns its ID and session token.
func (e *testEnv) registerUser(t *testing.T, name string) (string, string) {
	t.Helper()

	var session struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	body := map[string]string{
		"email":    fmt.Sprintf("%s@example.com", name),
		"name":     name,
		"password": "long-enough-password",
	}
	if status := e.call(t, http.MethodPost, "/api/auth/register", "", body, &session); status != http.StatusCreated {
		t.Fatalf("register returned %d", status)
	}
	return session.User.ID, session.Token
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	_, token := env.registerUser(t, "alice")
	if token == "" {
		t.Fatal("expected a session token")
	}

	var session struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	login := map[string]string{"email": "alice@example.com", "password": "long-enough-password"}
	if status := env.call(t, http.MethodPost, "/api/auth/login", "", login, &session); status != http.StatusOK {
		t.Fatalf("login returned %d", status)
	}
	if session.User.Name != "alice" {
		t.Errorf("logged-in user = %q, want alice", session.User.Name)
	}

	badLogin := map[string]string{"email": "alice@example.com", "password": "wrong"}
	if status := env.call(t, http.MethodPost, "/api/auth/login", "", badLogin, nil); status != http.StatusUnauthorized {
		t.Errorf("bad login returned %d, want 401", status)
	}

	dup := map[string]string{"email": "alice@example.com", "name": "other", "password": "long-enough-password"}
	if status := env.call(t, http.MethodPost, "/api/auth/register", "", dup, nil); status != http.StatusConflict {
		t.Errorf("duplicate register returned %d, want 409", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/balances"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodGet, "/api/activity"},
	}
	for _, p := range paths {
		if status := env.call(t, p.method, p.path, "", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("%s %s without token returned %d, want 401", p.method, p.path, status)
		}
	}

	if status := env.call(t, http.MethodGet, "/healthz", "", nil, nil); status != http.StatusOK {
		t.Errorf("/healthz returned %d, want 200", status)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	env := newTestEnv(t)
	aliceID, token := env.registerUser(t, "alice")

	var bob models.User
	if status := env.call(t, http.MethodPost, "/api/friends", token, map[string]string{"name": "Bob"}, &bob); status != http.StatusCreated {
		t.Fatalf("create friend returned %d", status)
	}

	var expense models.Expense
	create := map[string]any{
		"description":  "Dinner",
		"amount":       60.0,
		"split_method": "equally",
		"split_with":   []string{aliceID, bob.ID},
	}
	if status := env.call(t, http.MethodPost, "/api/expenses", token, create, &expense); status != http.StatusCreated {
		t.Fatalf("create expense returned %d", status)
	}
	if expense.PaidByID != aliceID {
		t.Errorf("payer defaulted to %s, want the viewer %s", expense.PaidByID, aliceID)
	}
	if len(expense.Splits) != 2 {
		t.Errorf("got %d splits, want 2", len(expense.Splits))
	}

	var fetched struct {
		Expense     models.Expense `json:"expense"`
		SplitMethod string         `json:"split_method"`
	}
	if status := env.call(t, http.MethodGet, "/api/expenses/"+expense.ID, token, nil, &fetched); status != http.StatusOK {
		t.Fatalf("get expense returned %d", status)
	}
	if fetched.SplitMethod != "equally" {
		t.Errorf("split method = %q, want equally", fetched.SplitMethod)
	}

	update := map[string]any{
		"description":   "Fancy dinner",
		"amount":        90.0,
		"paid_by_id":    aliceID,
		"split_method":  "unequally",
		"split_with":    []string{aliceID, bob.ID},
		"split_amounts": map[string]float64{aliceID: 30, bob.ID: 60},
	}
	var updated models.Expense
	if status := env.call(t, http.MethodPut, "/api/expenses/"+expense.ID, token, update, &updated); status != http.StatusOK {
		t.Fatalf("update expense returned %d", status)
	}
	if updated.Description != "Fancy dinner" || len(updated.Splits) != 2 {
		t.Errorf("unexpected updated expense: %+v", updated)
	}

	var balances []models.Balance
	if status := env.call(t, http.MethodGet, "/api/balances", token, nil, &balances); status != http.StatusOK {
		t.Fatalf("balances returned %d", status)
	}
	if len(balances) != 1 || balances[0].UserID != bob.ID || balances[0].Amount != 60 {
		t.Errorf("balances = %+v, want bob owing 60", balances)
	}

	bad := map[string]any{"amount": 10.0, "split_with": []string{aliceID}}
	if status := env.call(t, http.MethodPost, "/api/expenses", token, bad, nil); status != http.StatusBadRequest {
		t.Errorf("invalid expense returned %d, want 400", status)
	}
	if status := env.call(t, http.MethodPut, "/api/expenses/no-such-id", token, update, nil); status != http.StatusNotFound {
		t.Errorf("update of unknown expense returned %d, want 404", status)
	}
}

func TestGroupBalancesAndForbidden(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.registerUser(t, "alice")
	_, outsiderToken := env.registerUser(t, "mallory")

	var bob models.User
	if status := env.call(t, http.MethodPost, "/api/friends", aliceToken, map[string]string{"name": "Bob"}, &bob); status != http.StatusCreated {
		t.Fatalf("create friend returned %d", status)
	}

	var group models.Group
	createGroup := map[string]any{"name": "Trip", "member_ids": []string{bob.ID}}
	if status := env.call(t, http.MethodPost, "/api/groups", aliceToken, createGroup, &group); status != http.StatusCreated {
		t.Fatalf("create group returned %d", status)
	}
	if !group.HasMember(aliceID) {
		t.Errorf("creator missing from group: %+v", group)
	}

	expense := map[string]any{
		"description":  "Hotel",
		"amount":       200.0,
		"group_id":     group.ID,
		"split_method": "equally",
		"split_with":   []string{aliceID, bob.ID},
	}
	if status := env.call(t, http.MethodPost, "/api/expenses", aliceToken, expense, nil); status != http.StatusCreated {
		t.Fatalf("create expense returned %d", status)
	}

	var balances []models.Balance
	if status := env.call(t, http.MethodGet, "/api/balances?group_id="+group.ID, aliceToken, nil, &balances); status != http.StatusOK {
		t.Fatalf("group balances returned %d", status)
	}
	if len(balances) != 1 || balances[0].Amount != 100 {
		t.Errorf("group balances = %+v, want bob owing 100", balances)
	}

	if status := env.call(t, http.MethodGet, "/api/balances?group_id="+group.ID, outsiderToken, nil, nil); status != http.StatusForbidden {
		t.Errorf("outsider group balances returned %d, want 403", status)
	}
}

func TestSettleAndActivity(t *testing.T) {
	env := newTestEnv(t)
	aliceID, token := env.registerUser(t, "alice")

	var bob models.User
	if status := env.call(t, http.MethodPost, "/api/friends", token, map[string]string{"name": "Bob"}, &bob); status != http.StatusCreated {
		t.Fatalf("create friend returned %d", status)
	}

	expense := map[string]any{
		"description":  "Groceries",
		"amount":       100.0,
		"split_method": "equally",
		"split_with":   []string{aliceID, bob.ID},
	}
	if status := env.call(t, http.MethodPost, "/api/expenses", token, expense, nil); status != http.StatusCreated {
		t.Fatalf("create expense returned %d", status)
	}

	var payment models.Payment
	settle := map[string]any{"counterparty_id": bob.ID, "amount": 50.0}
	if status := env.call(t, http.MethodPost, "/api/settle", token, settle, &payment); status != http.StatusCreated {
		t.Fatalf("settle returned %d", status)
	}
	if payment.FromUserID != bob.ID || payment.ToUserID != aliceID {
		t.Errorf("settle direction %s->%s, want bob paying alice", payment.FromUserID, payment.ToUserID)
	}

	var balances []models.Balance
	if status := env.call(t, http.MethodGet, "/api/balances", token, nil, &balances); status != http.StatusOK {
		t.Fatalf("balances returned %d", status)
	}
	if len(balances) != 0 {
		t.Errorf("balances after settling = %+v, want none", balances)
	}

	var items []models.ActivityItem
	if status := env.call(t, http.MethodGet, "/api/activity", token, nil, &items); status != http.StatusOK {
		t.Fatalf("activity returned %d", status)
	}
	if len(items) != 2 {
		t.Fatalf("got %d activity items, want 2", len(items))
	}

	if status := env.call(t, http.MethodGet, "/api/activity?participant="+bob.ID, token, nil, &items); status != http.StatusOK {
		t.Fatalf("filtered activity returned %d", status)
	}
	if len(items) != 2 {
		t.Errorf("got %d items for bob, want 2", len(items))
	}

	if status := env.call(t, http.MethodGet, "/api/activity?start=not-a-number", token, nil, nil); status != http.StatusBadRequest {
		t.Errorf("bad activity filter returned %d, want 400", status)
	}
}
