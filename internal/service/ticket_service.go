package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/events"
	"github.com/school-kit/helpdesk-service/internal/lifecycle"
	"github.com/school-kit/helpdesk-service/internal/query"
	"github.com/school-kit/helpdesk-service/internal/repository"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// idGenerationRetries bounds the collision-retry loop; 999 ids per day is
// already past the system's scale.
const idGenerationRetries = 50

// TicketService coordinates the submission workflow, lifecycle operations
// and reporting over the ticket collection.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	engine     *lifecycle.Engine
	dispatcher events.Dispatcher
	now        func() time.Time
	randInt    func(n int) int
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Engine     *lifecycle.Engine
	Dispatcher events.Dispatcher

	// Now and RandInt override the clock and id randomness in tests.
	Now     func() time.Time
	RandInt func(n int) int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
		now:        deps.Now,
		randInt:    deps.RandInt,
	}
	if s.engine == nil {
		s.engine = lifecycle.NewEngine()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.randInt == nil {
		s.randInt = rand.Intn
	}
	return s
}

// SubmitInput describes a new ticket request.
type SubmitInput struct {
	Category    domain.TicketCategory
	Subcategory string
	Location    string
	Priority    domain.TicketPriority
	Description string
}

// Submit validates the input, generates a collision-checked id and persists
// a New ticket with its initial history entry.
func (s *TicketService) Submit(ctx context.Context, submitter domain.Principal, input SubmitInput) (domain.Ticket, error) {
	if err := validateSubmitInput(input); err != nil {
		return domain.Ticket{}, err
	}

	id, err := s.generateTicketID(ctx)
	if err != nil {
		return domain.Ticket{}, err
	}

	now := s.now()
	ticket := domain.Ticket{
		ID:          id,
		Status:      domain.TicketStatusNew,
		Priority:    input.Priority,
		Category:    input.Category,
		Subcategory: strings.TrimSpace(input.Subcategory),
		Location:    strings.TrimSpace(input.Location),
		Description: strings.TrimSpace(input.Description),
		SubmittedBy: submitter.Username,
		CreatedAt:   now,
		History: []domain.HistoryEntry{
			{Action: "Created", By: submitter.Username, At: now, Note: "Ticket submitted"},
		},
		Comments: []domain.Comment{},
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		Actor:    submitter.Username,
		Payload: events.TicketSubmittedPayload{
			Category:    ticket.Category,
			Subcategory: ticket.Subcategory,
			Location:    ticket.Location,
			Priority:    ticket.Priority,
		},
	})
	return ticket, nil
}

// Get fetches a ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// List returns the filtered, sorted ticket collection. Teachers only ever
// see their own tickets; the handler pins SubmittedBy for them.
func (s *TicketService) List(ctx context.Context, filter query.Filter, field query.SortField, dir query.SortDirection) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Sort(query.Apply(tickets, filter), field, dir), nil
}

// Assign moves a ticket to Assigned and records the target admin.
func (s *TicketService) Assign(ctx context.Context, actor domain.Principal, ticketID, assignee string) (domain.Ticket, error) {
	if strings.TrimSpace(assignee) == "" {
		return domain.Ticket{}, util.NewValidationError("assignee is required", map[string]any{"missing": []string{"assignee"}})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}

	assigneeName := assignee
	if user, err := s.users.GetByUsername(ctx, assignee); err == nil {
		assigneeName = user.Name
	} else if !util.HasCode(err, util.CodeNotFound) {
		return domain.Ticket{}, err
	}

	updated, err := s.engine.Assign(ticket, actor, assignee, assigneeName)
	if err != nil {
		return domain.Ticket{}, err
	}
	saved, err := s.tickets.Save(ctx, updated)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: saved.ID,
		Actor:    actor.Username,
		Payload:  events.TicketAssignedPayload{AssignedTo: assignee},
	})
	return saved, nil
}

// ChangeStatus applies an admin-channel transition.
func (s *TicketService) ChangeStatus(ctx context.Context, actor domain.Principal, ticketID string, newStatus domain.TicketStatus, note string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	oldStatus := ticket.Status
	updated, err := s.engine.ChangeStatus(ticket, actor, newStatus, note)
	if err != nil {
		return domain.Ticket{}, err
	}
	saved, err := s.tickets.Save(ctx, updated)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publishStatusChange(ctx, actor, saved, oldStatus, note)
	return saved, nil
}

// Close lets the submitter confirm resolution.
func (s *TicketService) Close(ctx context.Context, actor domain.Principal, ticketID, note string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	oldStatus := ticket.Status
	updated, err := s.engine.Close(ticket, actor, note)
	if err != nil {
		return domain.Ticket{}, err
	}
	saved, err := s.tickets.Save(ctx, updated)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publishStatusChange(ctx, actor, saved, oldStatus, note)
	return saved, nil
}

// Reopen lets the submitter reject resolution.
func (s *TicketService) Reopen(ctx context.Context, actor domain.Principal, ticketID, note string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	oldStatus := ticket.Status
	updated, err := s.engine.Reopen(ticket, actor, note)
	if err != nil {
		return domain.Ticket{}, err
	}
	saved, err := s.tickets.Save(ctx, updated)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publishStatusChange(ctx, actor, saved, oldStatus, note)
	return saved, nil
}

// AddComment appends a comment to the ticket thread.
func (s *TicketService) AddComment(ctx context.Context, actor domain.Principal, ticketID, text string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	updated, err := s.engine.AddComment(ticket, actor, text)
	if err != nil {
		return domain.Ticket{}, err
	}
	saved, err := s.tickets.Save(ctx, updated)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: saved.ID,
		Actor:    actor.Username,
		Payload: events.TicketCommentAddedPayload{
			Author:      actor.Username,
			TextPreview: textPreview(text, 120),
		},
	})
	return saved, nil
}

// Report bundles every aggregation the analytics view renders.
type Report struct {
	Summary         query.Summary               `json:"summary"`
	ByStatus        map[domain.TicketStatus]int `json:"byStatus"`
	ByCategory      []query.CategoryCount       `json:"byCategory"`
	ByPriority      []query.PriorityCount       `json:"byPriority"`
	TopLocations    []query.LocationCount       `json:"topLocations"`
	CreatedPerDay   []query.DayCount            `json:"createdPerDay"`
	ResolutionTrend []query.ResolutionPoint     `json:"resolutionTrend"`
}

// Report computes aggregate metrics over the filtered collection.
func (s *TicketService) Report(ctx context.Context, filter query.Filter) (Report, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return Report{}, err
	}
	filtered := query.Apply(tickets, filter)
	return Report{
		Summary:         query.Summarize(filtered),
		ByStatus:        query.CountByStatus(filtered),
		ByCategory:      query.CountByCategory(filtered),
		ByPriority:      query.CountByPriority(filtered),
		TopLocations:    query.TopLocations(filtered),
		CreatedPerDay:   query.CreatedPerDay(filtered),
		ResolutionTrend: query.ResolutionTrend(filtered),
	}, nil
}

func validateSubmitInput(input SubmitInput) error {
	var missing []string
	if strings.TrimSpace(string(input.Category)) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(input.Subcategory) == "" {
		missing = append(missing, "subcategory")
	}
	if strings.TrimSpace(input.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(string(input.Priority)) == "" {
		missing = append(missing, "priority")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return util.NewValidationError(
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing},
		)
	}
	if !input.Category.IsValid() {
		return util.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if !input.Priority.IsValid() {
		return util.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	return nil
}

// generateTicketID builds TKT-<YYYYMMDD>-<NNN> with NNN in 001..999,
// retrying on collision against the existing collection.
func (s *TicketService) generateTicketID(ctx context.Context) (string, error) {
	datePart := s.now().Format("20060102")
	for attempt := 0; attempt < idGenerationRetries; attempt++ {
		id := fmt.Sprintf("TKT-%s-%03d", datePart, s.randInt(999)+1)
		exists, err := s.tickets.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", util.NewInternalError(fmt.Errorf("could not generate a unique ticket id after %d attempts", idGenerationRetries))
}

func (s *TicketService) publishStatusChange(ctx context.Context, actor domain.Principal, t domain.Ticket, oldStatus domain.TicketStatus, note string) {
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: t.ID,
		Actor:    actor.Username,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: t.Status,
			Note:      note,
		},
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func textPreview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
