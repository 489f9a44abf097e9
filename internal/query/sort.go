package query

import (
	"sort"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// SortField names a sortable ticket column.
type SortField string

const (
	SortByID        SortField = "id"
	SortByStatus    SortField = "status"
	SortByPriority  SortField = "priority"
	SortByCategory  SortField = "category"
	SortByLocation  SortField = "location"
	SortByCreatedAt SortField = "createdAt"
)

// SortDirection orders ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort stably orders tickets by the given field; ties keep their original
// relative order. Unknown fields fall back to createdAt, the default view
// being createdAt descending.
func Sort(tickets []domain.Ticket, field SortField, dir SortDirection) []domain.Ticket {
	out := make([]domain.Ticket, len(tickets))
	copy(out, tickets)

	less := lessFunc(field)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(field SortField) func(a, b domain.Ticket) bool {
	switch field {
	case SortByID:
		return func(a, b domain.Ticket) bool { return a.ID < b.ID }
	case SortByStatus:
		return func(a, b domain.Ticket) bool { return a.Status < b.Status }
	case SortByPriority:
		return func(a, b domain.Ticket) bool { return a.Priority < b.Priority }
	case SortByCategory:
		return func(a, b domain.Ticket) bool { return a.Category < b.Category }
	case SortByLocation:
		return func(a, b domain.Ticket) bool { return a.Location < b.Location }
	default:
		return func(a, b domain.Ticket) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}
