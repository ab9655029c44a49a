package handlers

import (
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type EnrollmentHandler struct {
	enrollments *services.EnrollmentService
	plans       *services.PlanService
	clock       *clock.Clock
}

func NewEnrollmentHandler(enrollments *services.EnrollmentService, plans *services.PlanService, clk *clock.Clock) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, plans: plans, clock: clk}
}

func (h *EnrollmentHandler) Create(c *fiber.Ctx) error {
	var req dto.EnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	result, err := h.enrollments.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(services.EnrollmentCreatedView(result, h.clock.Today()))
}

// ListValid serves the enrollments that grant access today.
func (h *EnrollmentHandler) ListValid(c *fiber.Ctx) error {
	list, err := h.enrollments.ListValid(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	today := h.clock.Today()
	resp := make([]dto.EnrollmentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, services.EnrollmentView(&list[i], today))
	}
	return c.JSON(resp)
}

func (h *EnrollmentHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	e, err := h.enrollments.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.EnrollmentView(e, h.clock.Today()))
}

func (h *EnrollmentHandler) Cancel(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	e, err := h.enrollments.Cancel(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.EnrollmentView(e, h.clock.Today()))
}

func (h *EnrollmentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.enrollments.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EnrollmentHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.plans.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plans)
}

func (h *EnrollmentHandler) GetPlan(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	plan, err := h.plans.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// CreatePlan is admin-only.
func (h *EnrollmentHandler) CreatePlan(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	plan, err := h.plans.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}
