package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coursetrack/config"
	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	"coursetrack/routers/courseRoutes"
	"coursetrack/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the certificate scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		be, err := openBackend(cfg, log)
		if err != nil {
			return err
		}
		defer be.Close()

		h := controllers.NewHandler(be, controllers.Options{
			Notifier:          utils.NewNotifier(cfg, log),
			HeartbeatInterval: cfg.HeartbeatInterval,
			Log:               log,
		})

		app := newApp(cfg, h)

		scheduler, err := utils.InitializeCertificateScheduler(cfg.CertSweepSpec, h.Certificates(), log)
		if err != nil {
			return err
		}
		defer scheduler.Stop()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			log.Info("server is running", zap.String("port", cfg.Port))
			errc <- app.Listen(":" + cfg.Port)
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

func newApp(cfg *config.Config, h *controllers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "coursetrack",
		ErrorHandler: middleware.FiberErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization,X-Request-ID",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(middleware.RateLimiter(cfg.RateLimitMax))
	app.Use(compress.New())
	app.Use(etag.New())

	courseRoutes.Setup(app, h, cfg.JWTKey)
	return app
}
