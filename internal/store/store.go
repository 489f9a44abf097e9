package store

import (
	"context"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// Collection names used by every backend.
const (
	CollectionUsers   = "users"
	CollectionTickets = "tickets"
)

// RecordStore is the external record-store collaborator: two collections
// read and written whole. Backends offer no partial updates, indexing or
// transactions; the repository layer builds per-record semantics on top.
type RecordStore interface {
	Users(ctx context.Context) ([]domain.User, error)
	SetUsers(ctx context.Context, users []domain.User) error
	Tickets(ctx context.Context) ([]domain.Ticket, error)
	SetTickets(ctx context.Context, tickets []domain.Ticket) error
}

func normalizeTickets(tickets []domain.Ticket) []domain.Ticket {
	for i := range tickets {
		tickets[i].Normalize()
	}
	return tickets
}
