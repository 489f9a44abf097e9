package repository

import (
	"context"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/store"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// TicketRepository gives per-record semantics over the whole-collection
// record store.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	Create(ctx context.Context, ticket domain.Ticket) error
	Save(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type ticketRepository struct {
	records store.RecordStore
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(records store.RecordStore) TicketRepository {
	return &ticketRepository{records: records}
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (domain.Ticket, error) {
	tickets, err := r.records.Tickets(ctx)
	if err != nil {
		return domain.Ticket{}, err
	}
	for _, t := range tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Ticket{}, util.NewNotFound("ticket", map[string]any{"id": id})
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.records.Tickets(ctx)
}

func (r *ticketRepository) Exists(ctx context.Context, id string) (bool, error) {
	tickets, err := r.records.Tickets(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tickets {
		if t.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	tickets, err := r.records.Tickets(ctx)
	if err != nil {
		return err
	}
	for _, existing := range tickets {
		if existing.ID == ticket.ID {
			return util.NewDuplicateKey("ticket id already exists", map[string]any{"id": ticket.ID})
		}
	}
	return r.records.SetTickets(ctx, append(tickets, ticket))
}

// Save writes back a mutated ticket. The stored version must equal the
// version the caller read, otherwise the write is stale and rejected; the
// returned ticket carries the bumped version.
func (r *ticketRepository) Save(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	tickets, err := r.records.Tickets(ctx)
	if err != nil {
		return domain.Ticket{}, err
	}
	for i, existing := range tickets {
		if existing.ID != ticket.ID {
			continue
		}
		if existing.Version != ticket.Version {
			return domain.Ticket{}, util.NewConflict("ticket was modified concurrently", map[string]any{
				"id":              ticket.ID,
				"expectedVersion": ticket.Version,
				"storedVersion":   existing.Version,
			})
		}
		ticket.Version++
		tickets[i] = ticket
		if err := r.records.SetTickets(ctx, tickets); err != nil {
			return domain.Ticket{}, err
		}
		return ticket, nil
	}
	return domain.Ticket{}, util.NewNotFound("ticket", map[string]any{"id": ticket.ID})
}
