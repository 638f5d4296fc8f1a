// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	archivepg "github.com/lorekeep/lorekeep/internal/archive/postgres"
	"github.com/lorekeep/lorekeep/internal/logging"
	"github.com/lorekeep/lorekeep/internal/observability"
	"github.com/lorekeep/lorekeep/internal/store"
	"github.com/lorekeep/lorekeep/pkg/errutil"
)

// shutdownTimeout bounds graceful shutdown of the observability server.
const shutdownTimeout = 10 * time.Second

// serveConfig holds flags local to the serve command.
type serveConfig struct {
	autoMigrate bool
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the archive engine",
		Long: `Run the archive engine process: connect to PostgreSQL, wire the
archive services, and expose metrics and health endpoints until
interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.autoMigrate, "auto-migrate", false, "apply pending migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, serveCfg *serveConfig) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("lorekeep", version, cfg.Log.Format)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveCfg.autoMigrate {
		if err := autoMigrate(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	pool, err := archivepg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		errutil.LogError(logger, "database connection failed", err)
		return err
	}
	defer pool.Close()

	obsServer := observability.NewServer(cfg.Observability.Addr, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})

	services := archivepg.NewServices(pool)
	services.Authorizer.SetDenialHook(observability.RecordAuthorizationDenial)
	services.SetMetrics(obsServer.Metrics())
	logger.Info("archive services initialized")

	obsErrCh, err := obsServer.Start()
	if err != nil {
		errutil.LogError(logger, "observability server failed to start", err)
		return err
	}

	logger.Info("lorekeep running", "observability_addr", obsServer.Addr())

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-obsErrCh:
		if err != nil {
			errutil.LogError(logger, "observability server failed", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := obsServer.Stop(stopCtx); err != nil {
		errutil.LogError(logger, "observability server shutdown failed", err)
		return err
	}

	logger.Info("lorekeep stopped")
	return nil
}

// autoMigrate applies pending migrations before the pool is opened.
func autoMigrate(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			errutil.LogError(logger, "migrator close failed", closeErr)
		}
	}()

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Info("database schema up to date")
		return nil
	}

	logger.Info("applying pending migrations", "count", len(pending))
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto-migrate").Wrap(err)
	}

	version, _, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "version", version)
	return nil
}
