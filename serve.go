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

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"sprout_backend/internals/configs"
	database "sprout_backend/internals/databases"
	"sprout_backend/internals/features/payment/gateways"
	helper "sprout_backend/internals/helpers"
	middlewares "sprout_backend/internals/middlewares"
	"sprout_backend/internals/middlewares/logger"
	routes "sprout_backend/internals/route"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before serving")
	return cmd
}

// bootstrap loads configuration and opens the pool shared by every command.
func bootstrap() (*configs.Config, *slog.Logger, *gorm.DB, error) {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := configs.NewLogger(cfg.App.Debug, os.Stderr)
	slog.SetDefault(log)

	db, err := database.ConnectDB(cfg.Database, log, cfg.App.Debug)
	if err != nil {
		return nil, nil, nil, err
	}
	database.TunePool(db, log)
	return cfg, log, db, nil
}

func newApp(log *slog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if !errors.As(err, &fe) {
				log.Error("unhandled error", "path", c.Path(), "err", err)
			}
			return helper.JsonAppError(c, err)
		},
	})
}

func runServe(ctx context.Context, migrate bool) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("close db failed", "err", err)
		}
	}()

	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema migrated")
	}
	database.WarmUp(db, log)

	reg := gateways.NewRegistryFromConfig(cfg)

	app := newApp(log)
	app.Use(requestid.New())
	app.Use(middlewares.RecoveryMiddleware(log))
	app.Use(logger.LoggerMiddleware(log))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(middlewares.CorsMiddleware(cfg.App.AllowedOrigins))
	app.Use(middlewares.GlobalRateLimiter())

	routes.SetupRoutes(app, db, reg, cfg, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.App.Port, "env", cfg.App.Env, "version", Version)
		errCh <- app.Listen("0.0.0.0:" + cfg.App.Port)
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
