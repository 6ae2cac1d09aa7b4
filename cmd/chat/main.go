package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	chatbot "github.com/raagapravija/Chatbot"
	"github.com/raagapravija/Chatbot/internal/cli"
	"github.com/raagapravija/Chatbot/internal/config"
	"github.com/raagapravija/Chatbot/internal/domain"
	"github.com/raagapravija/Chatbot/internal/repository"
	"github.com/raagapravija/Chatbot/internal/repository/memory"
	"github.com/raagapravija/Chatbot/internal/service"
)

func main() {
	// Structured logging to stderr; stdout belongs to the conversation.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store domain.Store
	switch cfg.StorageBackend {
	case "memory":
		store = memory.NewStore()
	default:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(chatbot.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		store = repository.NewPostgres(pool)
	}

	openRouter := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.MaxOutputTokens, cfg.StopSequences)

	// Catalog check is advisory: an unknown id still reaches the provider and
	// comes back as a classified error on the first turn.
	if _, err := openRouter.GetModel(ctx, cfg.Model); err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			slog.Warn("configured model not in provider catalog", "model", cfg.Model)
		} else {
			slog.Warn("could not verify model against provider catalog", "model", cfg.Model, "error", err)
		}
	}

	naming := service.NewNamingService(store, openRouter, cfg.Model)
	conversations := service.NewConversationService(store, openRouter, naming, cfg)
	sessions := service.NewSessionService(store, cfg)

	userID := domain.UserID(cfg.UserID)
	if userID == "" {
		userID = domain.UserID(uuid.NewString())
		slog.Info("minted ephemeral user id", "user_id", userID)
	}

	repl := cli.New(sessions, conversations, os.Stdin, os.Stdout)
	if err := repl.Run(ctx, userID); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("interactive loop ended", "error", err)
		os.Exit(1)
	}

	slog.Info("goodbye")
}
