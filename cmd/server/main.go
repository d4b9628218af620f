package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jollyhome/jollyhome-api/internal/apps/payments"
	"github.com/jollyhome/jollyhome-api/internal/config"
	"github.com/jollyhome/jollyhome-api/internal/database"
	"github.com/jollyhome/jollyhome-api/internal/logging"
	"github.com/jollyhome/jollyhome-api/internal/server"
	"github.com/jollyhome/jollyhome-api/internal/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "jollyhome",
		Short:         "JollyHome apartment management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is normal outside local development.
			_ = godotenv.Load()
			logging.Setup(os.Getenv("LOG_LEVEL") == "debug")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(serve(configFile))
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(serve(configFile))
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(migrate(configFile))
		},
	})
	return root
}

func report(err error) error {
	if err != nil {
		slog.Error("command failed", "error", err)
	}
	return err
}

func loadConfig(configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if cfg.TokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET environment variable is required")
	}
	if cfg.DBPassword == "" && cfg.IsProduction() {
		return nil, errors.New("DB_PASSWORD environment variable is required")
	}
	return cfg, nil
}

func connectAndMigrate(cfg *config.Config) error {
	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(database.DB, server.PluginModels(cfg)...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func migrate(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := connectAndMigrate(cfg); err != nil {
		return err
	}
	slog.Info("schema migrated")
	return nil
}

func serve(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	if err := connectAndMigrate(cfg); err != nil {
		return err
	}
	defer database.Close()

	// Admin bootstrap
	if admins := cfg.AdminEmailList(); len(admins) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		err := services.NewUserService(database.DB).EnsureAdmins(ctx, admins)
		cancel()
		if err != nil {
			return err
		}
		slog.Info("admin identities ensured", "count", len(admins))
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(os.Stdout, os.Getenv("LOG_LEVEL") == "debug"),
		dbLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	// Token denylist
	var revocation services.RevocationStore = services.NewMemoryRevocationStore()
	if cfg.RedisURL != "" {
		store, err := services.NewRedisRevocationStore(cfg.RedisURL)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		err = store.Ping(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("redis unreachable: %w", err)
		}
		defer store.Close()
		revocation = store
		slog.Info("token revocation backed by redis")
	}

	// Payments
	var processor payments.PaymentProcessor
	if cfg.StripeSecretKey != "" {
		processor = payments.NewStripeProcessor(cfg.StripeSecretKey)
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
	}

	// Sentry error tracking
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	if !cfg.HardenedAccess {
		slog.Warn("hardened access disabled, user and agreement reads are public")
	}

	app := server.New(cfg, server.Deps{
		DB:         database.DB,
		Ping:       database.Ping,
		Revocation: revocation,
		Processor:  processor,
		AccessLog:  true,
		Sentry:     sentryEnabled,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
	case err := <-listenErr:
		close(cleanupDone)
		dbLogHandler.Stop()
		return fmt.Errorf("server failed to start: %w", err)
	}
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()

	slog.Info("server stopped")
	return nil
}
