package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AzielCF/daily-post/ui/rest"
	"github.com/AzielCF/daily-post/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the publish API over http",
	Long:  `Exposes the cron trigger, manual publish, run ledger, preview, token refresh, health and metrics endpoints.`,
	RunE:  restServer,
}

func init() {
	restCmd.Flags().Bool("scheduler", false, "also run the in-process scheduler loop | example: --scheduler=true")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) error {
	withScheduler, _ := cmd.Flags().GetBool("scheduler")
	withScheduler = withScheduler || cfg.Schedule.SchedulerInLoop

	app := fiber.New(fiber.Config{
		EnableTrustedProxyCheck: true,
		Network:                 "tcp",
		AppName:                 "Daily Post",
		ServerHeader:            "Hidden",
		Immutable:               true,
		// Publishing a carousel waits on container processing.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "no-referrer",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
	app.Use(collector.Middleware())

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	app.Get(cfg.App.BasePath+"/metrics", collector.Handler())

	apiGroup := app.Group(cfg.App.BasePath + "/api")

	// Health stays reachable without credentials.
	rest.InitRestHealth(apiGroup, healthUsecase)

	if cfg.IsProduction() && cfg.Auth.PublishSecret == "" && cfg.Auth.CronSecret == "" {
		logrus.Warn("[REST] PUBLISH_CRON_SECRET and CRON_SECRET are empty, every protected request will be rejected")
	}
	apiGroup.Use(middleware.BearerAuth(cfg.IsProduction(), cfg.Auth.PublishSecret, cfg.Auth.CronSecret))

	rest.InitRestPublish(apiGroup, publishUsecase, scheduleUsecase, cfg.Runtime.DryRun)
	rest.InitRestRuns(apiGroup, runsUsecase)
	rest.InitRestPreview(apiGroup, previewUsecase)
	rest.InitRestTokens(apiGroup, tokenUsecase)
	rest.InitRestWorkerPool(apiGroup, alertPool)

	apiGroup.All("/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "API Endpoint not found",
			"path":  c.Path(),
		})
	})

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if withScheduler {
		go scheduleUsecase.StartLoop(schedulerCtx, cfg.Schedule.TickInterval)
	}

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		stopScheduler()
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Errorf("[REST] Failed to start: %v", err)
		return err
	}
	return nil
}
