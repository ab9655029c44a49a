package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Members     *handlers.MemberHandler
	Enrollments *handlers.EnrollmentHandler
	Payments    *handlers.PaymentHandler
	CheckIns    *handlers.CheckInHandler
	Reports     *handlers.ReportHandler
	Catalog     *handlers.CatalogHandler
}

func perIPLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(perIPLimiter(60))

	api.Get("/health", h.Health.Check)

	// Login and PIN entry are brute-forceable: 10 req/min per IP
	auth := api.Group("/auth", perIPLimiter(10))
	auth.Post("/login", h.Auth.Login)

	// Kiosk (public, on the gym floor)
	kiosk := api.Group("/kiosk")
	kiosk.Post("/checkin/pin", perIPLimiter(10), h.CheckIns.KioskByPIN)
	kiosk.Post("/checkin/:member_id", h.CheckIns.KioskByID)

	// Admin routes (JWT + admin role). Registered before the staff group so
	// its prefix-wide middleware never runs twice.
	admin := api.Group("/admin", middleware.JWTProtected(cfg.JWTSecret), middleware.AdminRequired(db))
	admin.Post("/staff", h.Auth.CreateStaff)
	admin.Post("/plans", h.Enrollments.CreatePlan)
	admin.Get("/instructors", h.Catalog.ListInstructors)
	admin.Post("/instructors", h.Catalog.CreateInstructor)
	admin.Get("/instructors/:id", h.Catalog.GetInstructor)
	admin.Get("/reports", h.Reports.Get)
	admin.Get("/reports/export", h.Reports.Export)

	// Staff routes (JWT required)
	staff := api.Group("", middleware.JWTProtected(cfg.JWTSecret))

	staff.Get("/members", h.Members.List)
	staff.Post("/members", h.Members.Create)
	staff.Get("/members/:id", h.Members.Get)
	staff.Put("/members/:id", h.Members.Update)
	staff.Delete("/members/:id", h.Members.Delete)

	staff.Post("/checkins", h.CheckIns.Desk)
	staff.Get("/checkins/today", h.CheckIns.Today)

	staff.Get("/plans", h.Enrollments.ListPlans)
	staff.Get("/plans/:id", h.Enrollments.GetPlan)
	staff.Get("/enrollments", h.Enrollments.ListValid)
	staff.Post("/enrollments", h.Enrollments.Create)
	staff.Get("/enrollments/:id", h.Enrollments.Get)
	staff.Post("/enrollments/:id/cancel", h.Enrollments.Cancel)
	staff.Delete("/enrollments/:id", h.Enrollments.Delete)

	staff.Get("/payments", h.Payments.List)
	staff.Post("/payments/:id/:action", h.Payments.Settle)

	staff.Get("/workouts", h.Catalog.ListWorkouts)
	staff.Post("/workouts", h.Catalog.CreateWorkout)
	staff.Get("/workouts/:id", h.Catalog.GetWorkout)
	staff.Post("/workouts/:id/members", h.Catalog.AssignMember)
	staff.Delete("/workouts/:id/members/:member_id", h.Catalog.UnassignMember)

	staff.Get("/announcements", h.Catalog.ListAnnouncements)
	staff.Post("/announcements", h.Catalog.CreateAnnouncement)
	staff.Delete("/announcements/:id", h.Catalog.DeleteAnnouncement)
}
