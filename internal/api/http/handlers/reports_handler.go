package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/school-kit/helpdesk-service/internal/api/dto"
	"github.com/school-kit/helpdesk-service/internal/export"
	"github.com/school-kit/helpdesk-service/internal/query"
	"github.com/school-kit/helpdesk-service/internal/service"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// ReportsHandler serves aggregate metrics and data exports.
type ReportsHandler struct {
	tickets  *service.TicketService
	exporter *export.Exporter
}

// NewReportsHandler constructs handler.
func NewReportsHandler(tickets *service.TicketService, exporter *export.Exporter) *ReportsHandler {
	return &ReportsHandler{tickets: tickets, exporter: exporter}
}

// Report GET /reports. Aggregations over the date-filtered collection.
func (h *ReportsHandler) Report(c *fiber.Ctx) error {
	var q dto.TicketListQuery
	if err := c.QueryParser(&q); err != nil {
		return util.NewValidationError("invalid query parameters", nil)
	}
	filter, err := q.Filter()
	if err != nil {
		return util.NewValidationError("invalid date bound", map[string]any{"error": err.Error()})
	}
	report, err := h.tickets.Report(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ExportCSV GET /export/csv. Applies the same filters as the list view.
func (h *ReportsHandler) ExportCSV(c *fiber.Ctx) error {
	var q dto.TicketListQuery
	if err := c.QueryParser(&q); err != nil {
		return util.NewValidationError("invalid query parameters", nil)
	}
	filter, err := q.Filter()
	if err != nil {
		return util.NewValidationError("invalid date bound", map[string]any{"error": err.Error()})
	}
	tickets, err := h.tickets.List(c.UserContext(), filter, query.SortByCreatedAt, query.SortDesc)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("tickets-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendString(export.TicketsCSV(tickets))
}

// ExportBundle GET /export/bundle.
func (h *ReportsHandler) ExportBundle(c *fiber.Ctx) error {
	bundle, err := h.exporter.ExportBundle(c.UserContext())
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("helpdesk-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.JSON(bundle)
}

// ImportBundle POST /import. Accepts a bundle with either collection.
func (h *ReportsHandler) ImportBundle(c *fiber.Ctx) error {
	if err := h.exporter.ImportBundle(c.UserContext(), c.Body()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"imported": true}})
}
