package handlers

import (
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CheckInHandler serves the kiosk and the front desk. Every resolved member
// gets a 200 whose outcome says whether the gate opened; only an unknown
// member is a 404.
type CheckInHandler struct {
	checkins *services.CheckInService
	clock    *clock.Clock
}

func NewCheckInHandler(checkins *services.CheckInService, clk *clock.Clock) *CheckInHandler {
	return &CheckInHandler{checkins: checkins, clock: clk}
}

// KioskByID serves POST /kiosk/checkin/:member_id (QR code scan).
func (h *CheckInHandler) KioskByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "member_id")
	if !ok {
		return invalidID(c, "member_id")
	}
	result, err := h.checkins.CheckInByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.CheckInView(result, h.clock))
}

// KioskByPIN serves POST /kiosk/checkin/pin.
func (h *CheckInHandler) KioskByPIN(c *fiber.Ctx) error {
	var req dto.PINCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	result, err := h.checkins.CheckInByPIN(c.UserContext(), req.PIN)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.CheckInView(result, h.clock))
}

// Desk serves POST /checkins with a national ID or a name fragment.
func (h *CheckInHandler) Desk(c *fiber.Ctx) error {
	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	result, err := h.checkins.CheckInBySearch(c.UserContext(), req.Query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.CheckInView(result, h.clock))
}

// Today serves GET /checkins/today?filter=&page=.
func (h *CheckInHandler) Today(c *fiber.Ctx) error {
	filter := services.NormalizeAttendanceFilter(c.Query("filter"))
	page := queryPage(c)

	records, total, err := h.checkins.Today(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.AttendanceListResponse{
		Records: make([]dto.AttendanceResponse, 0, len(records)),
		Total:   total,
		Page:    page,
		PerPage: services.AttendancePerPage,
		Filter:  filter,
	}
	for i := range records {
		resp.Records = append(resp.Records, services.AttendanceView(&records[i], h.clock))
	}
	return c.JSON(resp)
}
