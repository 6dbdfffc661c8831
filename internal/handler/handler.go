// Package handler exposes the ledger over JSON HTTP. Routes under /api
// require a bearer token; the viewer identity always comes from the token,
// never from the request body.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/splitit/splitit/internal/auth"
	"github.com/splitit/splitit/internal/metrics"
	"github.com/splitit/splitit/internal/middleware"
	"github.com/splitit/splitit/internal/service"
	"github.com/splitit/splitit/internal/storage"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	ledger *service.LedgerService
	auth   *service.AuthService
}

// New creates a Handler over the given services.
func New(ledger *service.LedgerService, authService *service.AuthService) *Handler {
	return &Handler{ledger: ledger, auth: authService}
}

// Router builds the full route table. Register, login, health and metrics
// are public; everything else requires a valid token.
func (h *Handler) Router(jwtManager *auth.JWTManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireAuth(jwtManager))
	api.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/friends", h.CreateFriend).Methods(http.MethodPost)
	api.HandleFunc("/groups", h.ListGroups).Methods(http.MethodGet)
	api.HandleFunc("/groups", h.CreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/members", h.AddGroupMembers).Methods(http.MethodPost)
	api.HandleFunc("/expenses", h.ListExpenses).Methods(http.MethodGet)
	api.HandleFunc("/expenses", h.CreateExpense).Methods(http.MethodPost)
	api.HandleFunc("/expenses/{id}", h.GetExpense).Methods(http.MethodGet)
	api.HandleFunc("/expenses/{id}", h.UpdateExpense).Methods(http.MethodPut)
	api.HandleFunc("/payments", h.CreatePayment).Methods(http.MethodPost)
	api.HandleFunc("/settle", h.SettleUp).Methods(http.MethodPost)
	api.HandleFunc("/balances", h.Balances).Methods(http.MethodGet)
	api.HandleFunc("/activity", h.Activity).Methods(http.MethodGet)

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// errBadRequest marks malformed request bodies and query parameters.
var errBadRequest = errors.New("invalid request")

// respondError maps service and auth errors to HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidExpense),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotGroupMember):
		status = http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
