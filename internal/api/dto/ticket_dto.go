package dto

import (
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/query"
)

// SubmitTicketRequest payload.
type SubmitTicketRequest struct {
	Category    domain.TicketCategory `json:"category" validate:"required"`
	Subcategory string                `json:"subcategory" validate:"required"`
	Location    string                `json:"location" validate:"required"`
	Priority    domain.TicketPriority `json:"priority" validate:"required"`
	Description string                `json:"description" validate:"required"`
}

// AssignRequest payload.
type AssignRequest struct {
	Assignee string `json:"assignee" validate:"required"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required"`
	Note   string              `json:"note"`
}

// NoteRequest payload for close/reopen.
type NoteRequest struct {
	Note string `json:"note"`
}

// CommentRequest payload.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// TicketListQuery captures list filters from query parameters.
type TicketListQuery struct {
	Status      string `query:"status"`
	Category    string `query:"category"`
	Priority    string `query:"priority"`
	Location    string `query:"location"`
	Search      string `query:"search"`
	DateFrom    string `query:"dateFrom"`
	DateTo      string `query:"dateTo"`
	SubmittedBy string `query:"submittedBy"`
	SortBy      string `query:"sortBy"`
	SortDir     string `query:"sortDir"`
}

// Filter converts the query parameters into a query filter. Date bounds
// are calendar dates.
func (q TicketListQuery) Filter() (query.Filter, error) {
	f := query.Filter{
		Status:      domain.TicketStatus(q.Status),
		Category:    domain.TicketCategory(q.Category),
		Priority:    domain.TicketPriority(q.Priority),
		Location:    q.Location,
		SearchText:  q.Search,
		SubmittedBy: q.SubmittedBy,
	}
	if q.DateFrom != "" {
		from, err := time.Parse("2006-01-02", q.DateFrom)
		if err != nil {
			return query.Filter{}, err
		}
		f.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse("2006-01-02", q.DateTo)
		if err != nil {
			return query.Filter{}, err
		}
		f.DateTo = &to
	}
	return f, nil
}

// Sort returns the requested sort order, defaulting to createdAt descending.
func (q TicketListQuery) Sort() (query.SortField, query.SortDirection) {
	field := query.SortField(q.SortBy)
	if field == "" {
		field = query.SortByCreatedAt
	}
	dir := query.SortDirection(q.SortDir)
	if dir != query.SortAsc && dir != query.SortDesc {
		dir = query.SortDesc
	}
	return field, dir
}
