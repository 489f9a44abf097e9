package store

import (
	"context"
	"sync"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// MemoryStore keeps both collections in process memory. The development and
// test backend; reads hand out copies so callers see a stable snapshot.
type MemoryStore struct {
	mu      sync.RWMutex
	users   []domain.User
	tickets []domain.Ticket
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   []domain.User{},
		tickets: []domain.Ticket{},
	}
}

// Users returns a snapshot of the user collection.
func (s *MemoryStore) Users(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

// SetUsers replaces the user collection.
func (s *MemoryStore) SetUsers(ctx context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]domain.User, len(users))
	copy(s.users, users)
	return nil
}

// Tickets returns a snapshot of the ticket collection.
func (s *MemoryStore) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return normalizeTickets(out), nil
}

// SetTickets replaces the ticket collection.
func (s *MemoryStore) SetTickets(ctx context.Context, tickets []domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = make([]domain.Ticket, len(tickets))
	copy(s.tickets, tickets)
	return nil
}
