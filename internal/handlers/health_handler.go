package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	clock *clock.Clock
}

func NewHealthHandler(db *gorm.DB, clk *clock.Clock) *HealthHandler {
	return &HealthHandler{db: db, clock: clk}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: h.clock.Now().Format(time.RFC3339),
		DB:        dbStatus,
		LocalDate: clock.FormatDate(h.clock.Today()),
	})
}
