package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/ericfisherdev/echochamber/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/echochamber/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/echochamber/internal/adapter/driving/web"
	"github.com/ericfisherdev/echochamber/internal/application"
	"github.com/ericfisherdev/echochamber/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"admin_username", cfg.AdminUsername,
		"busy_timeout", cfg.BusyTimeout,
		"retry_max", cfg.RetryMax,
		"retry_timeout", cfg.RetryTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath, cfg.BusyTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	accountStore := sqliteadapter.NewAccountRepo(db)
	suggestionStore := sqliteadapter.NewSuggestionRepo(db)

	// 6. Seed the admin account if absent.
	authSvc := application.NewAuthService(accountStore)
	if err := seedAdmin(ctx, cfg, authSvc, accountStore); err != nil {
		return err
	}

	// 7. Create services.
	metrics := httphandler.NewMetrics()
	policy := application.DefaultRetryPolicy()
	policy.MaxRetries = cfg.RetryMax
	policy.Timeout = cfg.RetryTimeout
	suggestionSvc := application.NewSuggestionService(suggestionStore, accountStore, policy, metrics.ObserveRetry, slog.Default())
	healthSvc := application.NewHealthService(db)

	// 8. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(suggestionSvc, authSvc, healthSvc, metrics, cfg.AdminUsername, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 9. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(suggestionSvc, authSvc, cfg.AdminUsername, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default(), metrics, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RetryTimeout + 20*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 10. Log startup complete.
	slog.Info("echochamber started", "listen_addr", cfg.ListenAddr)

	// 11. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 12. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// seedAdmin creates the admin account on first start. Without a configured
// password a random one is generated and logged once; later starts keep the
// stored hash.
func seedAdmin(ctx context.Context, cfg *config.Config, authSvc *application.AuthService, accounts *sqliteadapter.AccountRepo) error {
	password := cfg.AdminPassword
	generated := false
	if !cfg.HasAdminPassword() {
		exists, err := accounts.Exists(ctx, cfg.AdminUsername)
		if err != nil {
			return err
		}
		if exists {
			slog.Info("admin account present", "username", cfg.AdminUsername)
			return nil
		}
		if password, err = application.GeneratePassword(); err != nil {
			return err
		}
		generated = true
	}

	created, err := authSvc.EnsureAccount(ctx, cfg.AdminUsername, password)
	if err != nil {
		return err
	}

	switch {
	case created && generated:
		slog.Warn("admin account created with generated password; set ECHOCHAMBER_ADMIN_PASSWORD to choose one",
			"username", cfg.AdminUsername,
			"password", password,
		)
	case created:
		slog.Info("admin account created", "username", cfg.AdminUsername)
	default:
		slog.Info("admin account present", "username", cfg.AdminUsername)
	}
	return nil
}
