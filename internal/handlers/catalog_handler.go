package handlers

import (
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CatalogHandler serves instructors, workouts and announcements.
type CatalogHandler struct {
	instructors   *services.InstructorService
	workouts      *services.WorkoutService
	announcements *services.AnnouncementService
	clock         *clock.Clock
}

func NewCatalogHandler(
	instructors *services.InstructorService,
	workouts *services.WorkoutService,
	announcements *services.AnnouncementService,
	clk *clock.Clock,
) *CatalogHandler {
	return &CatalogHandler{
		instructors:   instructors,
		workouts:      workouts,
		announcements: announcements,
		clock:         clk,
	}
}

func (h *CatalogHandler) ListInstructors(c *fiber.Ctx) error {
	list, err := h.instructors.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *CatalogHandler) GetInstructor(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	instructor, err := h.instructors.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(instructor)
}

func (h *CatalogHandler) CreateInstructor(c *fiber.Ctx) error {
	var req dto.InstructorRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	instructor, err := h.instructors.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(instructor)
}

func (h *CatalogHandler) ListWorkouts(c *fiber.Ctx) error {
	list, err := h.workouts.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	today := h.clock.Today()
	resp := make([]dto.WorkoutResponse, 0, len(list))
	for i := range list {
		resp = append(resp, services.WorkoutView(&list[i], nil, today))
	}
	return c.JSON(resp)
}

func (h *CatalogHandler) GetWorkout(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	detail, err := h.workouts.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.WorkoutView(&detail.Workout, detail.Members, h.clock.Today()))
}

func (h *CatalogHandler) CreateWorkout(c *fiber.Ctx) error {
	var req dto.WorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	workout, err := h.workouts.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(services.WorkoutView(workout, nil, h.clock.Today()))
}

// AssignMember serves POST /workouts/:id/members.
func (h *CatalogHandler) AssignMember(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req dto.AssignMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return invalidID(c, "member_id")
	}
	if err := h.workouts.Assign(c.UserContext(), id, memberID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnassignMember serves DELETE /workouts/:id/members/:member_id.
func (h *CatalogHandler) UnassignMember(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	memberID, ok := paramID(c, "member_id")
	if !ok {
		return invalidID(c, "member_id")
	}
	if err := h.workouts.Unassign(c.UserContext(), id, memberID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) ListAnnouncements(c *fiber.Ctx) error {
	list, err := h.announcements.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *CatalogHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	a, err := h.announcements.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *CatalogHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.announcements.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
