package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"giftster/internal/auth"
	"giftster/internal/config"
	"giftster/internal/exchange"
	"giftster/internal/handler"
	"giftster/internal/mail"
	"giftster/internal/server"
	"giftster/internal/service"
	"giftster/internal/storage"
	"giftster/internal/storage/memory"
	"giftster/internal/storage/sqlite"
	"giftster/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.FromEnv()

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "backend", cfg.StoreBackend, "database", cfg.DBPath)

	mailer := newMailer(cfg)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	resetTokens := auth.NewResetTokenManager(cfg.JWTSecret, cfg.ResetTokenTTL)
	resetFlow := auth.NewPasswordResetFlow(store, resetTokens, mailer, cfg.BaseURL, slog.Default())

	guard := service.NewGuard(store)
	groups := service.NewGroupService(store, guard, slog.Default())
	gifts := service.NewGiftService(store, guard, slog.Default())
	exchanges := service.NewExchangeService(store, guard, exchange.New(), slog.Default())

	router := server.NewRouter(server.Handlers{
		Auth:     handler.NewAuthHandler(authenticator, jwtManager, resetFlow, store),
		Group:    handler.NewGroupHandler(groups),
		Gift:     handler.NewGiftHandler(gifts),
		Exchange: handler.NewExchangeHandler(exchanges),
	}, jwtManager)

	slog.Info("server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// openStore picks the persistence backend from config. Both adapters honor
// the same storage.Store contract.
func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		return sqlite.New(cfg.DBPath)
	case "memory":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// newMailer returns the SES mailer when a sender identity is configured,
// otherwise reset mail goes to the log.
func newMailer(cfg config.Config) mail.Mailer {
	if cfg.MailFrom == "" {
		slog.Info("MAIL_FROM not set, using log mailer")
		return mail.NewLogMailer(slog.Default())
	}

	mailer, err := mail.NewSESMailer(context.Background(), cfg.AWSRegion, cfg.MailFrom)
	if err != nil {
		slog.Error("failed to build SES mailer, falling back to log mailer", "error", err)
		return mail.NewLogMailer(slog.Default())
	}
	return mailer
}
