package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/config"
	"github.com/pageza/recipeshare/internal/api"
	"github.com/pageza/recipeshare/internal/database"
	"github.com/pageza/recipeshare/internal/logging"
	"github.com/pageza/recipeshare/internal/mealdb"
	"github.com/pageza/recipeshare/internal/remote"
	"github.com/pageza/recipeshare/internal/seed"
	"github.com/pageza/recipeshare/internal/server"
	"github.com/pageza/recipeshare/internal/service"
)

// Command flags
var (
	configPath  string
	logLevel    string
	skipMigrate bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the log level (debug, info, warn, error, silent)")

	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply migrations on startup")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and initializes logging
func setup() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := logging.Initialize(cfg.LogLevel, cfg.Environment == config.Production); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config, migrate bool) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.RunMigrations(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}
	return db, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logging.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := openDatabase(cfg, !skipMigrate)
		if err != nil {
			return err
		}
		defer database.Close(db)

		var rdb *redis.Client
		if cfg.RedisEnabled() {
			rdb, err = database.OpenRedis(ctx, cfg)
			if err != nil {
				if cfg.Environment == config.Production {
					return err
				}
				logging.Warn("continuing without redis", zap.Error(err))
			} else {
				defer rdb.Close()
			}
		}

		var (
			images service.ImageStore
			signer service.ImageURLSigner
		)
		if cfg.S3Bucket != "" {
			s3cfg, err := config.NewS3Config(ctx, cfg)
			if err != nil {
				return err
			}
			images = service.NewS3ImageStore(s3cfg)
			if cfg.S3Private {
				signer = s3cfg
			}
		}

		meals := mealdb.NewClient(cfg.MealDBURL, remote.NewClient(http.DefaultClient))

		srv, err := server.New(server.Deps{
			Config:      cfg,
			DB:          db,
			Redis:       rdb,
			Meals:       meals,
			Images:      images,
			ImageSigner: signer,
		})
		if err != nil {
			return err
		}
		return srv.Start(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logging.Sync()

		db, err := openDatabase(cfg, true)
		if err != nil {
			return err
		}
		defer database.Close(db)

		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo users and community recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logging.Sync()
		if cfg.Environment == config.Production {
			return fmt.Errorf("refusing to seed a production database")
		}

		db, err := openDatabase(cfg, true)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		res, err := seed.Run(ctx, service.NewAuthService(db, cfg.JWTSecret), service.NewRecipeService(db))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d users and %d recipes (password %q)\n", res.Users, res.Recipes, seed.DemoPassword)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), api.Version)
	},
}
