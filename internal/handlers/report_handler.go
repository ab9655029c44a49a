package handlers

import (
	"bytes"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get serves GET /admin/reports?period=. Unknown periods answer the daily
// report.
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	report, err := h.reports.Generate(c.UserContext(), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.ReportView(report))
}

// Export serves the same report as a CSV download.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	report, err := h.reports.Generate(c.UserContext(), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, report); err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(services.ExportFilename(report))
	return c.Send(buf.Bytes())
}
