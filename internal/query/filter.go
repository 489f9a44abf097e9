package query

import (
	"strings"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// Filter is a conjunction of optional predicates; empty fields match
// everything. SearchText matches any of id, description, submittedBy or
// subcategory case-insensitively.
type Filter struct {
	Status      domain.TicketStatus
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Location    string
	SearchText  string
	DateFrom    *time.Time
	DateTo      *time.Time
	SubmittedBy string
}

// Apply returns the tickets matching every supplied predicate. The input
// slice is never mutated.
func Apply(tickets []domain.Ticket, f Filter) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(tickets))
	var dateTo time.Time
	if f.DateTo != nil {
		dateTo = endOfDay(*f.DateTo)
	}
	search := strings.ToLower(strings.TrimSpace(f.SearchText))

	for _, t := range tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Location != "" && t.Location != f.Location {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		if f.DateFrom != nil && t.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && t.CreatedAt.After(dateTo) {
			continue
		}
		if f.SubmittedBy != "" && t.SubmittedBy != f.SubmittedBy {
			continue
		}
		result = append(result, t)
	}
	return result
}

func matchesSearch(t domain.Ticket, search string) bool {
	return strings.Contains(strings.ToLower(t.ID), search) ||
		strings.Contains(strings.ToLower(t.Description), search) ||
		strings.Contains(strings.ToLower(t.SubmittedBy), search) ||
		strings.Contains(strings.ToLower(t.Subcategory), search)
}

// endOfDay pushes a date bound to 23:59:59.999 so a same-day ticket is
// included by the inclusive upper comparison.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}
