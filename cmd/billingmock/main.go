package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/railzwaylabs/billingmock/internal/charge"
	"github.com/railzwaylabs/billingmock/internal/clock"
	"github.com/railzwaylabs/billingmock/internal/config"
	"github.com/railzwaylabs/billingmock/internal/customer"
	"github.com/railzwaylabs/billingmock/internal/db"
	"github.com/railzwaylabs/billingmock/internal/idempotency"
	"github.com/railzwaylabs/billingmock/internal/idgen"
	"github.com/railzwaylabs/billingmock/internal/invoice"
	"github.com/railzwaylabs/billingmock/internal/observability"
	"github.com/railzwaylabs/billingmock/internal/plan"
	plandomain "github.com/railzwaylabs/billingmock/internal/plan/domain"
	"github.com/railzwaylabs/billingmock/internal/redis"
	"github.com/railzwaylabs/billingmock/internal/scheduler"
	"github.com/railzwaylabs/billingmock/internal/seed"
	"github.com/railzwaylabs/billingmock/internal/server"
	"github.com/railzwaylabs/billingmock/internal/subscription"
	"github.com/railzwaylabs/billingmock/internal/testclock"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "billingmock",
		Short:   "Subscription billing lifecycle server",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd())
	return root
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, then start the billing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		db.MigrateModule,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		idgen.Module,
		redis.Module,
		idempotency.Module,
		plan.Module,
		customer.Module,
		subscription.Module,
		invoice.Module,
		charge.Module,
		testclock.Module,
		scheduler.Module,
		server.Module,
		fx.Invoke(seedDefaultPlans),
		fx.Invoke(startScheduler),
	)
	app.Run()
}

func seedDefaultPlans(cfg config.Config, conn *gorm.DB, repo plandomain.Repository, clk clock.Clock, log *zap.Logger) error {
	if !cfg.SeedPlans {
		return nil
	}
	return seed.EnsureDefaultPlans(context.Background(), conn, repo, clk, log)
}

func startScheduler(lc fx.Lifecycle, cfg config.Config, s *scheduler.Scheduler) {
	if cfg.Scheduler.Disabled {
		return
	}
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				s.RunForever(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
