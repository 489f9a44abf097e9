package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// Engine owns the ticket status state machine. Every operation is pure: it
// takes a ticket value and returns the updated value, leaving persistence to
// the caller. There are two authorization channels: admins drive transitions
// along the legal table, and the submitter alone decides the fate of a
// Resolved ticket (confirm-close or reject-reopen).
type Engine struct {
	now func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the engine clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs an engine with the wall clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign moves a New or Reopened ticket to Assigned and records the
// assignee. Admin only. assigneeName is the display name used in the
// history note; callers pass the username when no record is available.
func (e *Engine) Assign(t domain.Ticket, actor domain.Principal, assigneeUsername, assigneeName string) (domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin {
		return t, util.NewUnauthorized("only admins may assign tickets")
	}
	if t.Status != domain.TicketStatusNew && t.Status != domain.TicketStatusReopened {
		return t, util.NewInvalidTransition(
			fmt.Sprintf("ticket in status %q cannot be assigned", t.Status),
			map[string]any{"status": t.Status},
		)
	}
	if assigneeName == "" {
		assigneeName = assigneeUsername
	}
	t.Status = domain.TicketStatusAssigned
	t.AssignedTo = assigneeUsername
	t.History = appendHistory(t.History, domain.HistoryEntry{
		Action: "Status changed to Assigned",
		By:     actor.Username,
		At:     e.now(),
		Note:   "Assigned to " + assigneeName,
	})
	return t, nil
}

// ChangeStatus applies an admin-channel transition along the legal table.
// Resolved stamps resolvedAt; Closed stamps closedAt. A note of "" gets a
// generated message.
func (e *Engine) ChangeStatus(t domain.Ticket, actor domain.Principal, newStatus domain.TicketStatus, note string) (domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin {
		return t, util.NewUnauthorized("only admins may change ticket status")
	}
	if !isValidTransition(t.Status, newStatus) {
		return t, util.NewInvalidTransition(
			fmt.Sprintf("cannot move ticket from %q to %q", t.Status, newStatus),
			map[string]any{"from": t.Status, "to": newStatus},
		)
	}
	return e.applyStatus(t, actor.Username, newStatus, note), nil
}

// Close confirms resolution: the submitter moves a Resolved ticket to Closed.
func (e *Engine) Close(t domain.Ticket, actor domain.Principal, note string) (domain.Ticket, error) {
	if err := e.checkSubmitterChannel(t, actor); err != nil {
		return t, err
	}
	return e.applyStatus(t, actor.Username, domain.TicketStatusClosed, note), nil
}

// Reopen rejects resolution: the submitter moves a Resolved ticket back to
// Reopened and clears resolvedAt.
func (e *Engine) Reopen(t domain.Ticket, actor domain.Principal, note string) (domain.Ticket, error) {
	if err := e.checkSubmitterChannel(t, actor); err != nil {
		return t, err
	}
	if note == "" {
		note = "Ticket reopened"
	}
	t.Status = domain.TicketStatusReopened
	t.ResolvedAt = nil
	t.History = appendHistory(t.History, domain.HistoryEntry{
		Action: "Status changed to Reopened",
		By:     actor.Username,
		At:     e.now(),
		Note:   note,
	})
	return t, nil
}

// AddComment appends a comment. Allowed for admins and for the submitter;
// text must be non-empty after trimming.
func (e *Engine) AddComment(t domain.Ticket, actor domain.Principal, text string) (domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin && actor.Username != t.SubmittedBy {
		return t, util.NewUnauthorized("only admins or the submitter may comment")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return t, util.NewValidationError("comment text is required", map[string]any{"missing": []string{"text"}})
	}
	comments := make([]domain.Comment, len(t.Comments), len(t.Comments)+1)
	copy(comments, t.Comments)
	t.Comments = append(comments, domain.Comment{
		By:   actor.Username,
		At:   e.now(),
		Text: text,
	})
	return t, nil
}

// checkSubmitterChannel guards the Resolved-only submitter transitions.
// Closed tickets reject with InvalidTransition before any identity check.
func (e *Engine) checkSubmitterChannel(t domain.Ticket, actor domain.Principal) error {
	if t.Status == domain.TicketStatusClosed {
		return util.NewInvalidTransition("ticket is closed", map[string]any{"status": t.Status})
	}
	if t.Status != domain.TicketStatusResolved {
		return util.NewInvalidTransition(
			fmt.Sprintf("ticket in status %q is not awaiting submitter confirmation", t.Status),
			map[string]any{"status": t.Status},
		)
	}
	if actor.Username != t.SubmittedBy {
		return util.NewUnauthorized("only the submitter may close or reopen a resolved ticket")
	}
	return nil
}

func (e *Engine) applyStatus(t domain.Ticket, actorUsername string, newStatus domain.TicketStatus, note string) domain.Ticket {
	now := e.now()
	if note == "" {
		note = fmt.Sprintf("Status updated to %s", newStatus)
	}
	t.Status = newStatus
	if newStatus == domain.TicketStatusResolved {
		at := now
		t.ResolvedAt = &at
	}
	if newStatus == domain.TicketStatusClosed {
		at := now
		t.ClosedAt = &at
	}
	t.History = appendHistory(t.History, domain.HistoryEntry{
		Action: fmt.Sprintf("Status changed to %s", newStatus),
		By:     actorUsername,
		At:     now,
		Note:   note,
	})
	return t
}

// appendHistory copies before appending so callers holding the previous
// ticket value never observe the new entry.
func appendHistory(history []domain.HistoryEntry, entry domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(history), len(history)+1)
	copy(out, history)
	return append(out, entry)
}
