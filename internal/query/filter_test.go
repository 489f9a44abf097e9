package query

import (
	"testing"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 10, 0, 0, 0, time.UTC)
}

func testTickets() []domain.Ticket {
	return []domain.Ticket{
		{
			ID: "TKT-20250301-001", Status: domain.TicketStatusNew,
			Category: domain.CategoryHardware, Subcategory: "Monitor",
			Priority: domain.TicketPriorityHigh, Location: "Room 101",
			Description: "Monitor flickers badly", SubmittedBy: "jdoe",
			CreatedAt: day(1),
		},
		{
			ID: "TKT-20250302-002", Status: domain.TicketStatusInProgress,
			Category: domain.CategorySoftware, Subcategory: "Gradebook",
			Priority: domain.TicketPriorityMedium, Location: "Library",
			Description: "cannot export grades", SubmittedBy: "mlee",
			CreatedAt: day(2),
		},
		{
			ID: "TKT-20250303-003", Status: domain.TicketStatusResolved,
			Category: domain.CategoryHardware, Subcategory: "Projector",
			Priority: domain.TicketPriorityLow, Location: "Room 101",
			Description: "projector lamp dead", SubmittedBy: "jdoe",
			CreatedAt: day(3),
		},
	}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = t.ID
	}
	return out
}

func assertIDs(t *testing.T, got []domain.Ticket, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestApply(t *testing.T) {
	tickets := testTickets()

	t.Run("empty filter matches all", func(t *testing.T) {
		assertIDs(t, Apply(tickets, Filter{}), "TKT-20250301-001", "TKT-20250302-002", "TKT-20250303-003")
	})

	t.Run("status", func(t *testing.T) {
		assertIDs(t, Apply(tickets, Filter{Status: domain.TicketStatusResolved}), "TKT-20250303-003")
	})

	t.Run("predicates are anded", func(t *testing.T) {
		got := Apply(tickets, Filter{
			Category: domain.CategoryHardware,
			Location: "Room 101",
			Priority: domain.TicketPriorityHigh,
		})
		assertIDs(t, got, "TKT-20250301-001")
	})

	t.Run("submitted by", func(t *testing.T) {
		assertIDs(t, Apply(tickets, Filter{SubmittedBy: "jdoe"}), "TKT-20250301-001", "TKT-20250303-003")
	})

	t.Run("no match", func(t *testing.T) {
		got := Apply(tickets, Filter{Status: domain.TicketStatusOnHold})
		if len(got) != 0 {
			t.Fatalf("got %v, want none", ids(got))
		}
	})
}

func TestApply_SearchText(t *testing.T) {
	tickets := testTickets()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"matches description", "flickers", []string{"TKT-20250301-001"}},
		{"case insensitive", "FLICKERS", []string{"TKT-20250301-001"}},
		{"matches id fragment", "20250302", []string{"TKT-20250302-002"}},
		{"matches submitter", "mlee", []string{"TKT-20250302-002"}},
		{"matches subcategory", "projector", []string{"TKT-20250303-003"}},
		{"union across fields", "tkt-", []string{"TKT-20250301-001", "TKT-20250302-002", "TKT-20250303-003"}},
		{"whitespace only is no filter", "   ", []string{"TKT-20250301-001", "TKT-20250302-002", "TKT-20250303-003"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertIDs(t, Apply(tickets, Filter{SearchText: tt.search}), tt.want...)
		})
	}
}

func TestApply_DateRange(t *testing.T) {
	tickets := testTickets()
	from := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	assertIDs(t, Apply(tickets, Filter{DateFrom: &from}), "TKT-20250302-002", "TKT-20250303-003")

	// dateTo is a calendar date; a ticket created at 10:00 that day is in.
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	assertIDs(t, Apply(tickets, Filter{DateTo: &to}), "TKT-20250301-001", "TKT-20250302-002")

	assertIDs(t, Apply(tickets, Filter{DateFrom: &from, DateTo: &to}), "TKT-20250302-002")
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tickets := testTickets()
	_ = Apply(tickets, Filter{Status: domain.TicketStatusNew})
	assertIDs(t, tickets, "TKT-20250301-001", "TKT-20250302-002", "TKT-20250303-003")
}
