package export

import (
	"strings"
	"testing"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

func TestTicketsCSV(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	resolved := time.Date(2025, 3, 12, 16, 30, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		{
			ID: "TKT-20250310-042", Status: domain.TicketStatusResolved,
			Priority: domain.TicketPriorityHigh, Category: domain.CategoryHardware,
			Subcategory: "Monitor", Location: "Room 101",
			Description: `Monitor says "no signal"`, SubmittedBy: "jdoe",
			AssignedTo: "admin2", CreatedAt: created, ResolvedAt: &resolved,
		},
		{
			ID: "TKT-20250311-007", Status: domain.TicketStatusNew,
			Priority: domain.TicketPriorityLow, Category: domain.CategorySoftware,
			Subcategory: "Email", Location: "Library",
			Description: "cannot send attachments", SubmittedBy: "mlee",
			CreatedAt: created.AddDate(0, 0, 1),
		},
	}

	got := TicketsCSV(tickets)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), got)
	}

	wantHeader := "ID,Status,Priority,Category,Subcategory,Location,Description,Submitted By,Assigned To,Created,Resolved"
	if lines[0] != wantHeader {
		t.Fatalf("header = %q", lines[0])
	}

	// Only the description is quoted; internal quotes are doubled.
	wantRow := `TKT-20250310-042,Resolved,High,Hardware,Monitor,Room 101,"Monitor says ""no signal""",jdoe,admin2,2025-03-10T09:00:00Z,2025-03-12T16:30:00Z`
	if lines[1] != wantRow {
		t.Fatalf("row = %q\nwant %q", lines[1], wantRow)
	}

	// Unresolved tickets render an empty Resolved column, no trailing newline.
	if !strings.HasSuffix(lines[2], ",2025-03-11T09:00:00Z,") {
		t.Fatalf("row = %q", lines[2])
	}
}

func TestTicketsCSV_Empty(t *testing.T) {
	got := TicketsCSV(nil)
	if strings.Count(got, "\n") != 1 || !strings.HasPrefix(got, "ID,") {
		t.Fatalf("got %q", got)
	}
}
