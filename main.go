package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          "catalog",
		Short:        "Product catalog API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (env vars take precedence)")

	root.AddCommand(
		newServeCmd(&cfgFile),
		newMigrateCmd(&cfgFile),
		newSeedCmd(&cfgFile),
	)
	return root
}

// newLogger returns a development logger for debug level and a production
// logger otherwise.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	var zc zap.Config
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// bootstrap builds the logger and opens the database.
func bootstrap(cfg *config.Config) (*zap.Logger, *gorm.DB, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DatabaseDSN,
		Logger: logger,
		Debug:  cfg.LogLevel == "debug",
	})
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return logger, db, nil
}

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, db, err := bootstrap(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// --- Auth event stream (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger.Named("rabbitmq"))
		if err != nil {
			logger.Warn("auth events disabled: RabbitMQ unavailable", zap.Error(err))
		} else {
			defer mqClient.Close() //nolint:errcheck
			publisher = mqClient
			if err := mqClient.ConsumeAuthEvents(authEventLogger(logger.Named("auth_events"))); err != nil {
				logger.Warn("failed to start auth event consumer", zap.Error(err))
			}
		}
	} else {
		logger.Info("auth events disabled: RABBITMQ_URL is empty")
	}

	app := NewApp(cfg, db, publisher, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("api_prefix", cfg.APIPrefix))
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
	return nil
}

func newMigrateCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			logger, db, err := bootstrap(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			defer database.Close(db) //nolint:errcheck

			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info("migration complete")
			return nil
		},
	}
}

func newSeedCmd(cfgFile *string) *cobra.Command {
	var (
		count      int
		randomSeed int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with generated demo data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			logger, db, err := bootstrap(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			defer database.Close(db) //nolint:errcheck

			if !cmd.Flags().Changed("count") {
				count = cfg.SeedCount
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			started := time.Now()
			res, err := database.Seed(cmd.Context(), db, database.SeedOptions{
				Count:    count,
				Password: cfg.SeedPassword,
				Seed:     randomSeed,
			})
			if err != nil {
				return err
			}
			logger.Info("seeding complete",
				zap.Int("users", res.Users),
				zap.Int("categories", res.Categories),
				zap.Int("products", res.Products),
				zap.Duration("took", time.Since(started)),
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "number of users and products (default SEED_COUNT)")
	cmd.Flags().Int64Var(&randomSeed, "random-seed", 1, "random source seed")
	return cmd
}
