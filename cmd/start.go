package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"psn-value/core/loader"
	"psn-value/core/logger"
	"psn-value/core/middleware/auth"
	"psn-value/core/middleware/rayid"
	"psn-value/feature/integrity"
	"psn-value/feature/library"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "psn-value/docs/swagger"
)

// @title PSN Value API
// @version 1.0
// @description Storefront catalog sync and valuation service.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP API",
	Long:  `Starts the HTTP server, the job runner and every enabled feature.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if !a.cfg.Server.IsValidPort() {
			return fmt.Errorf("invalid server port %q", a.cfg.Server.Port)
		}
		logg := a.log

		runner, err := a.newRunner(logg, "")
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(library.NewFeature(library.NewHandler(a.service, runner, a.snapshots(), logg)))
		mgr.Register(integrity.NewFeature(a.objects, a.cfg.Storage.Bucket, logg, a.db))

		// RayID first so every log line of a request carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		api := app.Group(a.cfg.Server.BasePath)
		api.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))
		if err := mgr.LoadAll(api); err != nil {
			return err
		}
		for _, f := range mgr.Features() {
			logg.Info("Feature registered", zap.String("feature", f.Name()), zap.Bool("enabled", f.IsEnabled()))
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errCh <- app.Listen(a.cfg.Server.Address())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-sig:
		}

		logg.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := runner.Shutdown(ctx); err != nil {
			logg.Warn("Jobs did not stop in time", zap.Error(err))
		}
		return app.ShutdownWithContext(ctx)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
