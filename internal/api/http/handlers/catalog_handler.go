package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/lifecycle"
)

// CatalogHandler serves the enumerations form UIs render: statuses,
// priorities, categories with their subcategories, and known locations.
type CatalogHandler struct{}

// NewCatalogHandler constructs handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Catalog GET /catalog.
func (h *CatalogHandler) Catalog(c *fiber.Ctx) error {
	transitions := make(map[domain.TicketStatus][]domain.TicketStatus, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		transitions[status] = lifecycle.AllowedNext(status)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"statuses":      domain.AllStatuses,
		"priorities":    domain.AllPriorities,
		"subcategories": domain.Subcategories,
		"locations":     domain.Locations,
		"transitions":   transitions,
	}})
}
