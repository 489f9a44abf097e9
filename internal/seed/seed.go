package seed

import (
	"context"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/store"
)

// DefaultUsers returns the demo accounts. Credentials are intentionally
// trivial; this data is for local evaluation only.
func DefaultUsers() []domain.User {
	return []domain.User{
		{Username: "jdoe", Password: "password", Name: "Jane Doe", Role: domain.RoleTeacher},
		{Username: "mlee", Password: "password", Name: "Marcus Lee", Role: domain.RoleTeacher},
		{Username: "admin1", Password: "password", Name: "Sam Ortiz", Role: domain.RoleAdmin},
		{Username: "admin2", Password: "password", Name: "Priya Nair", Role: domain.RoleAdmin},
		{Username: "principal", Password: "password", Name: "Dana Whitfield", Role: domain.RolePrincipal},
	}
}

// SampleTickets returns a handful of tickets in assorted lifecycle states,
// anchored relative to now so the dashboard time series has recent data.
func SampleTickets(now time.Time) []domain.Ticket {
	day := 24 * time.Hour

	t1Created := now.Add(-9 * day)
	t1Resolved := now.Add(-6 * day)
	t1Closed := now.Add(-5 * day)

	t2Created := now.Add(-4 * day)
	t2Resolved := now.Add(-1 * day)

	t3Created := now.Add(-2 * day)

	return []domain.Ticket{
		{
			ID:          "TKT-" + t1Created.Format("20060102") + "-101",
			Status:      domain.TicketStatusClosed,
			Priority:    domain.TicketPriorityHigh,
			Category:    domain.CategoryHardware,
			Subcategory: "Projector/Display",
			Location:    "Room 203",
			Description: "Projector flickers during lessons and shuts off after a few minutes.",
			SubmittedBy: "jdoe",
			AssignedTo:  "admin1",
			CreatedAt:   t1Created,
			ResolvedAt:  &t1Resolved,
			ClosedAt:    &t1Closed,
			History: []domain.HistoryEntry{
				{Action: "Created", By: "jdoe", At: t1Created, Note: "Ticket submitted"},
				{Action: "Status changed to Assigned", By: "admin1", At: t1Created.Add(2 * time.Hour), Note: "Assigned to Sam Ortiz"},
				{Action: "Status changed to In Progress", By: "admin1", At: t1Created.Add(day), Note: "Status updated to In Progress"},
				{Action: "Status changed to Resolved", By: "admin1", At: t1Resolved, Note: "Replaced the lamp unit"},
				{Action: "Status changed to Closed", By: "jdoe", At: t1Closed, Note: "Status updated to Closed"},
			},
			Comments: []domain.Comment{
				{By: "admin1", At: t1Created.Add(day), Text: "Spare lamp ordered, should arrive tomorrow."},
				{By: "jdoe", At: t1Closed, Text: "Working fine now, thanks!"},
			},
		},
		{
			ID:          "TKT-" + t2Created.Format("20060102") + "-412",
			Status:      domain.TicketStatusResolved,
			Priority:    domain.TicketPriorityMedium,
			Category:    domain.CategorySoftware,
			Subcategory: "Grading Software",
			Location:    "Teacher Lounge",
			Description: "Cannot export grades, the report screen shows a blank page.",
			SubmittedBy: "mlee",
			AssignedTo:  "admin2",
			CreatedAt:   t2Created,
			ResolvedAt:  &t2Resolved,
			History: []domain.HistoryEntry{
				{Action: "Created", By: "mlee", At: t2Created, Note: "Ticket submitted"},
				{Action: "Status changed to Assigned", By: "admin1", At: t2Created.Add(3 * time.Hour), Note: "Assigned to Priya Nair"},
				{Action: "Status changed to In Progress", By: "admin2", At: t2Created.Add(day), Note: "Status updated to In Progress"},
				{Action: "Status changed to Resolved", By: "admin2", At: t2Resolved, Note: "Cleared the report cache"},
			},
			Comments: []domain.Comment{},
		},
		{
			ID:          "TKT-" + t3Created.Format("20060102") + "-266",
			Status:      domain.TicketStatusNew,
			Priority:    domain.TicketPriorityCritical,
			Category:    domain.CategoryHardware,
			Subcategory: "Network Equipment",
			Location:    "Computer Lab A",
			Description: "No internet on any machine in the lab, switch lights are all off.",
			SubmittedBy: "jdoe",
			CreatedAt:   t3Created,
			History: []domain.HistoryEntry{
				{Action: "Created", By: "jdoe", At: t3Created, Note: "Ticket submitted"},
			},
			Comments: []domain.Comment{},
		},
	}
}

// Apply writes demo data into empty collections; existing data is left
// alone unless force is set.
func Apply(ctx context.Context, records store.RecordStore, now time.Time, force bool) (seeded bool, err error) {
	users, err := records.Users(ctx)
	if err != nil {
		return false, err
	}
	tickets, err := records.Tickets(ctx)
	if err != nil {
		return false, err
	}
	if !force && (len(users) > 0 || len(tickets) > 0) {
		return false, nil
	}
	if err := records.SetUsers(ctx, DefaultUsers()); err != nil {
		return false, err
	}
	if err := records.SetTickets(ctx, SampleTickets(now)); err != nil {
		return false, err
	}
	return true, nil
}
