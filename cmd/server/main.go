package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitit/splitit/internal/auth"
	"github.com/splitit/splitit/internal/config"
	"github.com/splitit/splitit/internal/handler"
	"github.com/splitit/splitit/internal/middleware"
	"github.com/splitit/splitit/internal/service"
	"github.com/splitit/splitit/internal/storage"
	"github.com/splitit/splitit/internal/storage/sqlite"
	"github.com/splitit/splitit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	ctx := context.Background()
	if err := storage.Seed(ctx, store); err != nil {
		slog.Error("Failed to seed storage", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	ledger := service.NewLedgerService(store)
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)

	router := handler.New(ledger, authService).Router(jwtManager)
	chained := middleware.Logging(middleware.CORS(router))

	// h2c allows HTTP/2 without TLS for local and proxy-terminated setups.
	h2cHandler := h2c.NewHandler(chained, &http2.Server{})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h2cHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	slog.Info("Server starting", "address", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
