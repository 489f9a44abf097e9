package lifecycle

import "github.com/school-kit/helpdesk-service/internal/domain"

// allowedTransitions is the admin-driven legal transition table. Closed is
// terminal; the submitter-only Resolved exits (Close, Reopen) are a separate
// channel and deliberately absent here.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusAssigned},
	domain.TicketStatusAssigned:   {domain.TicketStatusInProgress, domain.TicketStatusOnHold},
	domain.TicketStatusInProgress: {domain.TicketStatusOnHold, domain.TicketStatusResolved},
	domain.TicketStatusOnHold:     {domain.TicketStatusAssigned, domain.TicketStatusInProgress},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
	domain.TicketStatusReopened:   {domain.TicketStatusInProgress},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedNext returns the admin-channel targets reachable from current.
func AllowedNext(current domain.TicketStatus) []domain.TicketStatus {
	next := allowedTransitions[current]
	out := make([]domain.TicketStatus, len(next))
	copy(out, next)
	return out
}
