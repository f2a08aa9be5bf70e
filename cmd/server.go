package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jamalpur-chamber/outbound/pkg/config"
	"github.com/jamalpur-chamber/outbound/pkg/errx"
	"github.com/jamalpur-chamber/outbound/pkg/logx"
)

const serviceName = "jamalpur-chamber-outbound"

func main() {
	// 1. Configuration and logger
	cfg := config.Load()
	logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))

	logx.Info("Starting outbound service...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Services
	container := NewContainer(ctx, cfg)
	container.StartBackgroundServices(ctx)

	// 3. HTTP surface
	app := newApp(container)

	// 4. Start server with graceful shutdown
	startServer(ctx, app, cfg.Server.Port)
}

func newApp(container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             int(container.Media.Policy().MaxBytes()) + 1024*1024,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: func() string { return "req-" + uuid.NewString() },
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  container.Config.Server.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health", healthCheckHandler(container))
	app.Use(notFoundHandler)

	return app
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler reports which outbound integrations are configured.
// A disabled integration is reported, not treated as unhealthy.
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := container.Config

		health := fiber.Map{
			"status":  "healthy",
			"service": serviceName,
			"mail": fiber.Map{
				"provider": cfg.Mail.Provider,
				"enabled":  container.Mail.Enabled(),
			},
			"media": fiber.Map{
				"provider":  cfg.Media.Provider,
				"strategy":  container.Media.Strategy().Name(),
				"enabled":   container.Media.Enabled(),
				"max_bytes": container.Media.Policy().MaxBytes(),
			},
		}

		if area, ok := container.Media.StagingArea(); ok {
			files, err := area.Lingering(c.UserContext())
			if err != nil {
				health["staging"] = fiber.Map{"dir": area.Dir(), "error": err.Error()}
			} else {
				health["staging"] = fiber.Map{"dir": area.Dir(), "lingering": len(files)}
			}
		}

		return c.JSON(health)
	}
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Get("X-Request-ID"),
	})
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"request_id": c.Get("X-Request-ID"),
	}).WithError(err).Error("Request error")

	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error":      e.Message,
			"code":       "FIBER_ERROR",
			"status":     e.Code,
			"request_id": c.Get("X-Request-ID"),
		})
	}

	var e *errx.Error
	if errx.As(err, &e) {
		resp := e.ToHTTPResponse()
		return c.Status(errx.StatusOf(err)).JSON(fiber.Map{
			"error":      resp.Message,
			"code":       resp.Code,
			"type":       resp.Type,
			"status":     resp.StatusCode,
			"details":    resp.Details,
			"request_id": c.Get("X-Request-ID"),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      "Internal Server Error",
		"type":       string(errx.TypeInternal),
		"code":       "INTERNAL_ERROR",
		"request_id": c.Get("X-Request-ID"),
	})
}

// ============================================================================
// Lifecycle
// ============================================================================

// startServer listens until ctx is cancelled by a signal, then shuts down.
func startServer(ctx context.Context, app *fiber.App, port string) {
	go func() {
		logx.Infof("Server listening on port %s", port)
		logx.Infof("Health Check: http://localhost:%s/health", port)

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited successfully")
}
