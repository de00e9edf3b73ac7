// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/alphaweb/internal/accounts"
	"github.com/tomtom215/alphaweb/internal/api"
	"github.com/tomtom215/alphaweb/internal/apidocs"
	"github.com/tomtom215/alphaweb/internal/audit"
	"github.com/tomtom215/alphaweb/internal/backup"
	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/cache"
	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/events"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/mail"
	"github.com/tomtom215/alphaweb/internal/metrics"
	"github.com/tomtom215/alphaweb/internal/middleware"
	"github.com/tomtom215/alphaweb/internal/otp"
	"github.com/tomtom215/alphaweb/internal/scheduler"
	"github.com/tomtom215/alphaweb/internal/store"
	"github.com/tomtom215/alphaweb/internal/supervisor"
	"github.com/tomtom215/alphaweb/internal/supervisor/services"
	"github.com/tomtom215/alphaweb/internal/transactpay"
	"github.com/tomtom215/alphaweb/internal/wal"
	ws "github.com/tomtom215/alphaweb/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_driver", cfg.Database.Driver).
		Str("events_backend", cfg.Events.Backend).
		Msg("Starting Alphaweb")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	if !cfg.Database.AutoMigrate {
		if v, err := db.SchemaVersion(ctx); err == nil {
			logging.Info().Int("schema_version", v).Msg("Auto-migrate disabled; run alphactl migrate to upgrade")
		}
	}
	st := store.New(db)

	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	lockout := auth.NewLockoutManager(auth.DefaultLockoutConfig())

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{
		CacheEnabled: cfg.Authz.CacheEnabled,
		CacheTTL:     cfg.Authz.CacheTTL,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize permission enforcer")
	}
	defer enforcer.Close()
	enforcer.SetRecorder(metrics.Recorder{})
	if err := enforcer.Sync(ctx, st); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load admin roles")
	}

	otpStore, err := otp.NewStore(ctx, &cfg.OTP)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize OTP store")
	}
	defer func() {
		if err := otpStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing OTP store")
		}
	}()
	otpSvc := otp.NewService(otpStore, cfg.OTP)

	mailer := mail.New(&cfg.Mail)
	if !cfg.Mail.Enabled {
		logging.Warn().Msg("SMTP disabled; outgoing mail is logged only")
	}
	if cfg.OTP.ExposeInResponse {
		logging.Warn().Msg("OTP codes are echoed in API responses (OTP_EXPOSE_IN_RESPONSE=true). Development only!")
	}

	bus, err := events.New(cfg.Events)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	var walRetry *wal.RetryLoop
	if cfg.Events.WALEnabled {
		journal, err := wal.Open(wal.Config{
			Path:          cfg.Events.WALPath,
			SyncWrites:    cfg.Events.WALSyncWrites,
			RetryInterval: cfg.Events.WALRetryInterval,
			MaxRetries:    cfg.Events.WALMaxRetries,
			EntryTTL:      cfg.Events.WALEntryTTL,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open event WAL")
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event WAL")
			}
		}()
		bus.SetWAL(journal)
		walRetry = wal.NewRetryLoop(journal, bus)
	}

	auditLog := audit.NewLogger(audit.NewSQLStore(db), audit.Config{
		Enabled:       cfg.Audit.Enabled,
		BufferSize:    cfg.Audit.BufferSize,
		RetentionDays: cfg.Audit.RetentionDays,
	})
	defer func() {
		if err := auditLog.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit logger")
		}
	}()
	auditLog.SetNotifier(events.AuditNotifier{Bus: bus})

	hub := ws.NewHub()

	subs := events.Subscribers{Customers: st, Feed: hub, Activity: auditLog}
	if cfg.TransactPay.Enabled {
		tp, err := transactpay.NewClient(&cfg.TransactPay)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize TransactPay client")
		}
		subs.Accounts = tp
		logging.Info().Str("api_url", cfg.TransactPay.APIURL).Msg("Virtual account provisioning enabled")
	} else {
		logging.Info().Msg("TransactPay disabled; customers get no virtual account")
	}
	if err := events.Wire(bus, subs); err != nil {
		logging.Fatal().Err(err).Msg("Failed to register event subscribers")
	}

	accts := accounts.New(accounts.Deps{
		Store:     st,
		OTP:       otpSvc,
		Mailer:    mailer,
		Tokens:    tokens,
		Lockout:   lockout,
		Events:    bus,
		Security:  cfg.Security,
		ExposeOTP: cfg.OTP.ExposeInResponse,
	})

	jobDeps := scheduler.Deps{
		Collections: st,
		Audit:       auditLog,
		OTP:         otpSvc,
		Lockout:     lockout,
	}
	if cfg.Backup.Enabled {
		if db.Path() == "" {
			logging.Warn().Msg("BACKUP_ENABLED ignored: only file-backed DuckDB databases are archived")
		} else {
			backup.AppVersion = version
			backups, err := backup.NewManager(&cfg.Backup, db, database.Tables...)
			if err != nil {
				logging.Fatal().Err(err).Msg("Failed to initialize backup manager")
			}
			jobDeps.Backups = backups
			logging.Info().Str("dir", cfg.Backup.Dir).Str("schedule", cfg.Scheduler.Backup).Msg("Database backups enabled")
		}
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(0)
		if err := scheduler.Register(sched, cfg.Scheduler, jobDeps); err != nil {
			logging.Fatal().Err(err).Msg("Failed to register scheduled jobs")
		}
	}

	statsCache := cache.New(cfg.Server.StatsCacheTTL)

	handler := api.NewHandler(api.Deps{
		Config:    cfg,
		Store:     st,
		Accounts:  accts,
		Audit:     auditLog,
		Enforcer:  enforcer,
		Cache:     statsCache,
		Events:    bus,
		Hub:       hub,
		Mailer:    mailer,
		Perf:      middleware.NewPerformanceMonitor(1000),
		Scheduler: sched,
		Version:   version,
	})
	router := api.NewRouter(handler, auth.NewMiddleware(tokens, cfg.Security.CookieName))

	if cfg.Server.SwaggerEnabled {
		apidocs.SwaggerInfo.Version = version
		logging.Info().Msg("Swagger UI served at /swagger/index.html")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if sched != nil {
		tree.AddBackgroundService(services.NewSchedulerService(sched))
	}
	if statsCache != nil {
		tree.AddBackgroundService(statsCache)
	}
	tree.AddMessagingService(services.NewEventBusService(bus, cfg.Server.ShutdownTimeout))
	if walRetry != nil {
		tree.AddMessagingService(walRetry)
	}
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}
	tree.LogUnstopped()

	logging.Info().Msg("Alphaweb stopped")
}
