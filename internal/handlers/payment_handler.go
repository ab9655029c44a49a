package handlers

import (
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	settlements *services.SettlementService
	clock       *clock.Clock
}

func NewPaymentHandler(settlements *services.SettlementService, clk *clock.Clock) *PaymentHandler {
	return &PaymentHandler{settlements: settlements, clock: clk}
}

// List serves GET /payments?include_archived=true&page=.
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	page := queryPage(c)
	payments, total, err := h.settlements.List(c.UserContext(), c.QueryBool("include_archived"), page)
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.PaymentListResponse{
		Payments: make([]dto.PaymentResponse, 0, len(payments)),
		Total:    total,
		Page:     page,
		PerPage:  services.PaymentsPerPage,
	}
	for i := range payments {
		resp.Payments = append(resp.Payments, services.PaymentView(&payments[i]))
	}
	return c.JSON(resp)
}

// Settle serves POST /payments/:id/:action. Actions that do not apply to the
// payment's current state answer 200 with changed=false.
func (h *PaymentHandler) Settle(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	action, err := services.ParseSettlementAction(c.Params("action"))
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.settlements.Apply(c.UserContext(), id, action)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.SettlementView(result, h.clock.Today()))
}
