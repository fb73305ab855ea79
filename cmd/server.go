package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/httpx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	// résumés are capped at 10MB, the rest is multipart overhead
	bodyLimit       = 12 * 1024 * 1024
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}
	logx.SetLevel(logx.ParseLevel(cfg.Server.LogLevel))
	logx.SetJSON(cfg.IsProd())

	logx.WithFields(logx.Fields{
		"environment": cfg.Environment,
		"port":        cfg.Server.Port,
	}).Info("Starting Recruitflow API")

	container := NewContainer(cfg)
	defer container.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	container.StartBackgroundServices(ctx)

	app := newApp(container)

	go func() {
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	waitForShutdown(app, cancel)
}

// newApp builds the fiber app with middleware, health check and every route
func newApp(container *Container) *fiber.App {
	cfg := container.Config

	app := fiber.New(fiber.Config{
		AppName:               "Recruitflow API",
		DisableStartupMessage: true,
		ErrorHandler:          httpx.ErrorHandler(cfg.IsDevelopment()),
		BodyLimit:             bodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: kernel.GenerateID,
	}))
	app.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	app.Use(logger.New(logger.Config{
		Format:     accessLogFormat(cfg.IsDevelopment()),
		TimeFormat: time.DateTime,
	}))

	app.Get("/health", healthCheckHandler(container))

	// /auth/login, /auth/logout, /auth/me
	container.AuthHandlers.RegisterRoutes(app, container.AuthMiddleware)

	api := app.Group("/api/v1")
	container.ProfileHandlers.RegisterRoutes(api, container.AuthMiddleware)
	container.JobHandlers.RegisterRoutes(api, container.AuthMiddleware)
	container.CandidateHandlers.RegisterRoutes(api, container.AuthMiddleware)

	app.Use(httpx.NotFound)
	return app
}

// corsConfig allows credentials only for an explicit origin list, the
// browser refuses cookies with a wildcard origin anyway
func corsConfig(origins []string) cors.Config {
	allowed := "*"
	if len(origins) > 0 {
		allowed = strings.Join(origins, ",")
	}
	return cors.Config{
		AllowOrigins:     allowed,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: allowed != "*",
		ExposeHeaders:    fiber.HeaderXRequestID,
	}
}

func accessLogFormat(dev bool) string {
	if dev {
		return "${time} ${status} ${method} ${path} ${latency} ${ip} ${locals:requestid}\n"
	}
	return "${time} ${status} ${method} ${path} ${latency}\n"
}

// healthCheckHandler pings Postgres and, when configured, Redis. Storage is
// only checked on ?check_storage=true since S3 calls cost a request each.
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		checks := fiber.Map{}
		healthy := true

		record := func(name string, err error) {
			if err != nil {
				checks[name] = fiber.Map{"status": "unhealthy", "error": err.Error()}
				healthy = false
				return
			}
			checks[name] = fiber.Map{"status": "healthy"}
		}

		record("db", container.DB.PingContext(ctx))
		if container.Redis != nil {
			record("redis", container.Redis.Ping(ctx).Err())
		}
		if c.QueryBool("check_storage", false) {
			_, err := container.FileSystem.Exists(ctx, ".health-check")
			record("storage", err)
		}

		status, code := "healthy", fiber.StatusOK
		if !healthy {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":      status,
			"service":     "recruitflow-api",
			"environment": container.Config.Environment,
			"time":        container.Clock.Now().UTC(),
			"checks":      checks,
		})
	}
}

func waitForShutdown(app *fiber.App, cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	logx.Infof("Received %v, shutting down", <-sig)

	// stops the purge sweeper before the connections go away
	cancel()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logx.Errorf("Forced shutdown: %v", err)
	}
	logx.Info("Server stopped")
}
