package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"login-system-api/internal/auth"
	"login-system-api/internal/config"
	"login-system-api/internal/database"
	httpserver "login-system-api/internal/http"
	"login-system-api/internal/logging"
	"login-system-api/internal/user"
)

// @title           Login System API
// @version         1.0
// @description     User-account and authentication backend: registration, profile management, password change.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := database.Open(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := user.NewRepository(db)

	verifier, err := auth.NewTokenVerifier([]byte(cfg.Auth.PasetoKey))
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	policy := auth.PasswordPolicy{MinLength: cfg.Auth.PasswordMinLength}
	accountService := auth.NewService(userRepo, policy, logger)
	accountHandler := auth.NewHandler(accountService, logger)
	authMiddleware := auth.NewMiddleware(verifier)

	router := httpserver.NewRouter(cfg, accountHandler, authMiddleware, logger)

	server := httpserver.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
