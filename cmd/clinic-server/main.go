package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hostelmed/clinic/internal/config"
	"github.com/hostelmed/clinic/internal/domain/account"
	"github.com/hostelmed/clinic/internal/domain/certificate"
	"github.com/hostelmed/clinic/internal/domain/inventory"
	"github.com/hostelmed/clinic/internal/domain/visit"
	"github.com/hostelmed/clinic/internal/platform/auth"
	"github.com/hostelmed/clinic/internal/platform/blobstore"
	"github.com/hostelmed/clinic/internal/platform/db"
	"github.com/hostelmed/clinic/internal/platform/middleware"
	"github.com/hostelmed/clinic/pkg/envelope"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Hostel medical office API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Certificate file storage
	store, err := blobstore.NewFSStore(cfg.CertDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open certificate storage")
	}

	// Token issuer
	issuer := auth.NewIssuer(cfg.TokenSecret, time.Duration(cfg.TokenTTLMins)*time.Minute)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = envelope.ErrorHandler

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Services
	accountRepo := account.NewRepoPG(pool)
	accountSvc := account.NewService(accountRepo, issuer)
	accountHandler := account.NewHandler(accountSvc)

	invRepo := inventory.NewRepoPG(pool)
	invSvc := inventory.NewService(invRepo)
	invHandler := inventory.NewHandler(invSvc)

	visitRepo := visit.NewRepoPG(pool)
	visitSvc := visit.NewService(visitRepo, invSvc, db.RunInTx)
	visitHandler := visit.NewHandler(visitSvc)

	certRepo := certificate.NewRepoPG(pool)
	certSvc := certificate.NewService(certRepo, store)
	certHandler := certificate.NewHandler(certSvc)

	// Public routes (no token)
	accountHandler.RegisterPublicRoutes(e)

	// Authenticated API: bearer token first, then one pooled database
	// connection per request so repositories and transactions share it.
	api := e.Group("/api/v1")
	api.Use(auth.Middleware(issuer))
	api.Use(db.SessionMiddleware(pool))

	accountHandler.RegisterRoutes(api)
	invHandler.RegisterRoutes(api)
	visitHandler.RegisterRoutes(api)
	certHandler.RegisterRoutes(api)

	// Orphan-file sweep. Attach writes the file before the database row, so a
	// crash in between can leave an unreferenced blob behind.
	sweeper := certificate.NewSweeper(certRepo, store, logger)
	c := cron.New()
	if _, err := c.AddFunc(cfg.SweepSpec, func() {
		if err := sweeper.Run(context.Background()); err != nil {
			logger.Error().Err(err).Msg("certificate sweep failed")
		}
	}); err != nil {
		logger.Fatal().Err(err).Str("spec", cfg.SweepSpec).Msg("invalid sweep schedule")
	}
	c.Start()
	defer c.Stop()

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	return nil
}
