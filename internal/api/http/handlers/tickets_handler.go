package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/school-kit/helpdesk-service/internal/api/dto"
	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/identity"
	"github.com/school-kit/helpdesk-service/internal/service"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Submit POST /tickets.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Submit(c.UserContext(), principal, service.SubmitInput{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Location:    req.Location,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// List GET /tickets. Teachers are pinned to their own submissions; admins
// and the principal see the whole collection.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var q dto.TicketListQuery
	if err := c.QueryParser(&q); err != nil {
		return util.NewValidationError("invalid query parameters", nil)
	}
	filter, err := q.Filter()
	if err != nil {
		return util.NewValidationError("invalid date bound", map[string]any{"error": err.Error()})
	}
	if principal.Role == domain.RoleTeacher {
		filter.SubmittedBy = principal.Username
	}
	field, dir := q.Sort()

	tickets, err := h.service.List(c.UserContext(), filter, field, dir)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleTeacher && ticket.SubmittedBy != principal.Username {
		return util.NewNotFound("ticket", map[string]any{"id": ticket.ID})
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	ticket, err := h.service.Assign(c.UserContext(), principal, c.Params("id"), req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// ChangeStatus POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), principal, c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Close POST /tickets/:id/close. Submitter channel.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Close(c.UserContext(), principal, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Reopen POST /tickets/:id/reopen. Submitter channel.
func (h *TicketsHandler) Reopen(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Reopen(c.UserContext(), principal, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Comment POST /tickets/:id/comments.
func (h *TicketsHandler) Comment(c *fiber.Ctx) error {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AddComment(c.UserContext(), principal, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}
