package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"shop/internal/adapters/out/demo"
	"shop/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand builds the shop CLI with its serve, migrate and seed
// commands.
func NewRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "shop",
		Short:         "Order graph read API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	load := func() (Config, *slog.Logger, error) {
		config, err := LoadConfig(envFile)
		if err != nil {
			return Config{}, nil, err
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel}))
		return config, logger, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the HTTP API",
			RunE: func(c *cobra.Command, _ []string) error {
				config, logger, err := load()
				if err != nil {
					return err
				}
				return serve(c.Context(), config, logger)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the postgres schema",
			RunE: func(c *cobra.Command, _ []string) error {
				config, logger, err := load()
				if err != nil {
					return err
				}
				return withPostgres(config, func(db *gorm.DB) error {
					if err := postgres.Migrate(c.Context(), db); err != nil {
						return err
					}
					logger.Info("Schema migrated")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the demo orders",
			RunE: func(c *cobra.Command, _ []string) error {
				config, logger, err := load()
				if err != nil {
					return err
				}
				data, err := demo.Build(time.Now())
				if err != nil {
					return err
				}
				return withPostgres(config, func(db *gorm.DB) error {
					if err := postgres.Seed(c.Context(), db, data); err != nil {
						return err
					}
					logger.Info("Demo orders seeded", "orders", len(data.Orders))
					return nil
				})
			},
		},
	)

	return root
}

func serve(ctx context.Context, config Config, logger *slog.Logger) error {
	store, db, err := OpenStore(config)
	if err != nil {
		return err
	}
	if db != nil {
		defer closeDB(db, logger)
	}

	app, err := NewCompositionRoot(config, store, logger)
	if err != nil {
		return err
	}

	router := app.CreateRouter()
	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server started", "port", config.HTTPPort, "store", config.StoreDriver)
		if err := router.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("HTTP server shutting down")
		return router.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func withPostgres(config Config, run func(db *gorm.DB) error) error {
	if config.StoreDriver != StoreDriverPostgres {
		return fmt.Errorf("command needs STORE_DRIVER=%s, got %q", StoreDriverPostgres, config.StoreDriver)
	}

	db, err := postgres.Open(config.DSN())
	if err != nil {
		return err
	}
	defer closeDB(db, slog.Default())

	return run(db)
}

func closeDB(db *gorm.DB, logger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get database handle", "error", err)
		return
	}
	if err = sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
