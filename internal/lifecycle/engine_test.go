package lifecycle

import (
	"testing"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

var (
	admin     = domain.Principal{Username: "admin1", Name: "Sam Ortiz", Role: domain.RoleAdmin}
	submitter = domain.Principal{Username: "jdoe", Name: "Jane Doe", Role: domain.RoleTeacher}
	principal = domain.Principal{Username: "dwhitfield", Name: "Dana Whitfield", Role: domain.RolePrincipal}
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func ticketIn(status domain.TicketStatus) domain.Ticket {
	t := domain.Ticket{
		ID:          "TKT-20250310-042",
		Status:      status,
		Priority:    domain.TicketPriorityHigh,
		Category:    domain.CategoryHardware,
		Subcategory: "Monitor",
		Location:    "Room 101",
		Description: "Monitor flickers",
		SubmittedBy: "jdoe",
		CreatedAt:   time.Date(2025, 3, 8, 8, 0, 0, 0, time.UTC),
		History:     []domain.HistoryEntry{{Action: "Created", By: "jdoe"}},
	}
	if status == domain.TicketStatusResolved {
		at := time.Date(2025, 3, 9, 16, 0, 0, 0, time.UTC)
		t.ResolvedAt = &at
	}
	return t
}

func TestChangeStatus_TransitionTable(t *testing.T) {
	all := domain.AllStatuses
	legal := map[domain.TicketStatus][]domain.TicketStatus{
		domain.TicketStatusNew:        {domain.TicketStatusAssigned},
		domain.TicketStatusAssigned:   {domain.TicketStatusInProgress, domain.TicketStatusOnHold},
		domain.TicketStatusInProgress: {domain.TicketStatusOnHold, domain.TicketStatusResolved},
		domain.TicketStatusOnHold:     {domain.TicketStatusAssigned, domain.TicketStatusInProgress},
		domain.TicketStatusResolved:   {domain.TicketStatusClosed},
		domain.TicketStatusClosed:     {},
		domain.TicketStatusReopened:   {domain.TicketStatusInProgress},
	}

	engine := NewEngine(WithClock(fixedClock()))
	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				allowed := false
				for _, next := range legal[from] {
					if next == to {
						allowed = true
					}
				}

				_, err := engine.ChangeStatus(ticketIn(from), admin, to, "")
				if allowed && err != nil {
					t.Fatalf("expected transition to succeed, got %v", err)
				}
				if !allowed && !util.HasCode(err, util.CodeInvalidTransition) {
					t.Fatalf("expected INVALID_TRANSITION, got %v", err)
				}
			})
		}
	}
}

func TestChangeStatus_NonAdminRejected(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock()))

	// Even a legal move is rejected for non-admins, and an illegal target
	// still reads as an authorization failure, not a transition one.
	for _, actor := range []domain.Principal{submitter, principal} {
		for _, to := range []domain.TicketStatus{domain.TicketStatusAssigned, domain.TicketStatusResolved} {
			_, err := engine.ChangeStatus(ticketIn(domain.TicketStatusNew), actor, to, "")
			if !util.HasCode(err, util.CodeUnauthorized) {
				t.Fatalf("actor %s to %s: expected UNAUTHORIZED, got %v", actor.Username, to, err)
			}
		}
	}
}

func TestChangeStatus_Stamps(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock()))

	resolved, err := engine.ChangeStatus(ticketIn(domain.TicketStatusInProgress), admin, domain.TicketStatusResolved, "fixed cable")
	if err != nil {
		t.Fatal(err)
	}
	if resolved.ResolvedAt == nil || !resolved.ResolvedAt.Equal(fixedClock()()) {
		t.Fatalf("resolvedAt = %v, want clock time", resolved.ResolvedAt)
	}
	if resolved.ClosedAt != nil {
		t.Fatalf("closedAt should stay nil on resolve, got %v", resolved.ClosedAt)
	}
	last := resolved.History[len(resolved.History)-1]
	if last.Action != "Status changed to Resolved" || last.Note != "fixed cable" || last.By != "admin1" {
		t.Fatalf("unexpected history entry %+v", last)
	}

	closed, err := engine.ChangeStatus(resolved, admin, domain.TicketStatusClosed, "")
	if err != nil {
		t.Fatal(err)
	}
	if closed.ClosedAt == nil {
		t.Fatal("closedAt not stamped")
	}
	if note := closed.History[len(closed.History)-1].Note; note != "Status updated to Closed" {
		t.Fatalf("default note = %q", note)
	}
}

func TestChangeStatus_HistoryGrowsByOne(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock()))
	before := ticketIn(domain.TicketStatusAssigned)

	after, err := engine.ChangeStatus(before, admin, domain.TicketStatusInProgress, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(after.History) != len(before.History)+1 {
		t.Fatalf("history length %d, want %d", len(after.History), len(before.History)+1)
	}
	// The caller's value must not see the appended entry.
	if len(before.History) != 1 {
		t.Fatalf("input history mutated, length now %d", len(before.History))
	}
}

func TestAssign(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock()))

	for _, from := range []domain.TicketStatus{domain.TicketStatusNew, domain.TicketStatusReopened} {
		got, err := engine.Assign(ticketIn(from), admin, "admin2", "Priya Nair")
		if err != nil {
			t.Fatalf("assign from %s: %v", from, err)
		}
		if got.Status != domain.TicketStatusAssigned || got.AssignedTo != "admin2" {
			t.Fatalf("got status %s assignedTo %s", got.Status, got.AssignedTo)
		}
		last := got.History[len(got.History)-1]
		if last.Note != "Assigned to Priya Nair" {
			t.Fatalf("note = %q", last.Note)
		}
	}

	if _, err := engine.Assign(ticketIn(domain.TicketStatusInProgress), admin, "admin2", ""); !util.HasCode(err, util.CodeInvalidTransition) {
		t.Fatalf("expected INVALID_TRANSITION, got %v", err)
	}
	if _, err := engine.Assign(ticketIn(domain.TicketStatusNew), submitter, "admin2", ""); !util.HasCode(err, util.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestClose_SubmitterChannel(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock()))

	got, err := engine.Close(ticketIn(domain.TicketStatusResolved), submitter, "works again")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.TicketStatusClosed || got.ClosedAt == nil {
		t.Fatalf("status %s closedAt %v", got.Status, got.ClosedAt)
	}

	tests := []struct {
		name     string
		ticket   domain.Ticket
		actor    domain.Principal
		wantCode string
	}{
		{"not the submitter", ticketIn(domain.TicketStatusResolved), admin, util.CodeUnauthorized},
		{"not resolved", ticketIn(domain.TicketStatusInProgress), submitter, util.CodeInvalidTransition},
		// A closed ticket reads as a transition error even for a stranger;
		// the state check comes before the identity check.
		{"already closed, stranger", ticketIn(domain.TicketStatusClosed), principal, util.CodeInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.Close(tt.ticket, tt.actor, ""); !util.HasCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestReopen(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock()))

	got, err := engine.Reopen(ticketIn(domain.TicketStatusResolved), submitter, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.TicketStatusReopened {
		t.Fatalf("status = %s", got.Status)
	}
	if got.ResolvedAt != nil {
		t.Fatalf("resolvedAt should be cleared, got %v", got.ResolvedAt)
	}
	if note := got.History[len(got.History)-1].Note; note != "Ticket reopened" {
		t.Fatalf("default note = %q", note)
	}

	if _, err := engine.Reopen(ticketIn(domain.TicketStatusResolved), admin, ""); !util.HasCode(err, util.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if _, err := engine.Reopen(ticketIn(domain.TicketStatusClosed), submitter, ""); !util.HasCode(err, util.CodeInvalidTransition) {
		t.Fatalf("expected INVALID_TRANSITION, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	engine := NewEngine(WithClock(fixedClock()))

	tests := []struct {
		name     string
		actor    domain.Principal
		text     string
		wantCode string
	}{
		{"submitter", submitter, "any update?", ""},
		{"admin", admin, "waiting on parts", ""},
		{"other teacher", domain.Principal{Username: "mlee", Role: domain.RoleTeacher}, "me too", util.CodeUnauthorized},
		{"principal not submitter", principal, "status?", util.CodeUnauthorized},
		{"blank text", submitter, "   ", util.CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.AddComment(ticketIn(domain.TicketStatusInProgress), tt.actor, tt.text)
			if tt.wantCode != "" {
				if !util.HasCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got.Comments) != 1 {
				t.Fatalf("comments length %d", len(got.Comments))
			}
			if got.Comments[0].By != tt.actor.Username || got.Comments[0].Text != tt.text {
				t.Fatalf("comment = %+v", got.Comments[0])
			}
		})
	}
}

func TestAllowedNext(t *testing.T) {
	next := AllowedNext(domain.TicketStatusOnHold)
	want := []domain.TicketStatus{domain.TicketStatusAssigned, domain.TicketStatusInProgress}
	if len(next) != len(want) {
		t.Fatalf("AllowedNext = %v", next)
	}
	for i := range want {
		if next[i] != want[i] {
			t.Fatalf("AllowedNext = %v, want %v", next, want)
		}
	}
	if got := AllowedNext(domain.TicketStatusClosed); len(got) != 0 {
		t.Fatalf("closed should be terminal, got %v", got)
	}
}
