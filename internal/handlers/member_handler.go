package handlers

import (
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MemberHandler struct {
	members *services.MemberService
	clock   *clock.Clock
}

func NewMemberHandler(members *services.MemberService, clk *clock.Clock) *MemberHandler {
	return &MemberHandler{members: members, clock: clk}
}

// List serves GET /members?search=&page=.
func (h *MemberHandler) List(c *fiber.Ctx) error {
	page := queryPage(c)
	members, total, err := h.members.List(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return respondError(c, err)
	}

	today := h.clock.Today()
	resp := dto.MemberListResponse{
		Members: make([]dto.MemberResponse, 0, len(members)),
		Total:   total,
		Page:    page,
		PerPage: services.MembersPerPage,
	}
	for i := range members {
		resp.Members = append(resp.Members, services.MemberView(&members[i], today))
	}
	return c.JSON(resp)
}

func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	member, err := h.members.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.MemberView(member, h.clock.Today()))
}

func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	member, err := h.members.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(services.MemberView(member, h.clock.Today()))
}

func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	member, err := h.members.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.MemberView(member, h.clock.Today()))
}

func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.members.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
