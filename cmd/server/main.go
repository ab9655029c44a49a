package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdout := logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.AttachDatabase(stdout, db)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	clk := clock.New(cfg.LocalUTCOffsetHours)
	notifier := services.LogNotifier{}

	// Services
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTAccessExpiry)
	memberService := services.NewMemberService(db, clk)
	planService := services.NewPlanService(db)
	enrollmentService := services.NewEnrollmentService(db, clk, notifier, services.EnrollmentOptions{
		CashDiscountPercent: cfg.CashDiscountPercent,
		ConfirmPolicy:       cfg.PaymentConfirmPolicy,
	})
	settlementService := services.NewSettlementService(db, clk)
	checkInService := services.NewCheckInService(db, clk, notifier)
	reportService := services.NewReportService(db, clk)
	instructorService := services.NewInstructorService(db)
	workoutService := services.NewWorkoutService(db, clk)
	announcementService := services.NewAnnouncementService(db)

	if cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("admin bootstrap failed", "username", cfg.AdminUsername, "error", err)
			os.Exit(1)
		}
	}

	// Handlers
	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Health:      handlers.NewHealthHandler(db, clk),
		Members:     handlers.NewMemberHandler(memberService, clk),
		Enrollments: handlers.NewEnrollmentHandler(enrollmentService, planService, clk),
		Payments:    handlers.NewPaymentHandler(settlementService, clk),
		CheckIns:    handlers.NewCheckInHandler(checkInService, clk),
		Reports:     handlers.NewReportHandler(reportService),
		Catalog:     handlers.NewCatalogHandler(instructorService, workoutService, announcementService, clk),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if id, ok := c.Locals("requestid").(string); ok {
			c.SetUserContext(logging.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	})
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, db, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "utc_offset_hours", cfg.LocalUTCOffsetHours)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.ErrorContext(c.UserContext(), "unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
