package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// PostgresStore keeps each collection as a jsonb document in the
// collections table. Whole-collection reads and writes only.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) read(ctx context.Context, collection string, dest any) error {
	const query = `SELECT payload FROM collections WHERE name=$1`
	var raw []byte
	err := s.pool.QueryRow(ctx, query, collection).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read collection %s: %w", collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

func (s *PostgresStore) write(ctx context.Context, collection string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	const query = `
        INSERT INTO collections (name, payload, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (name) DO UPDATE SET payload=EXCLUDED.payload, updated_at=NOW()`
	if _, err := s.pool.Exec(ctx, query, collection, raw); err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	return nil
}

// Users returns the user collection; a missing row yields an empty slice.
func (s *PostgresStore) Users(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.read(ctx, CollectionUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUsers replaces the user collection.
func (s *PostgresStore) SetUsers(ctx context.Context, users []domain.User) error {
	return s.write(ctx, CollectionUsers, users)
}

// Tickets returns the ticket collection; a missing row yields an empty slice.
func (s *PostgresStore) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets := []domain.Ticket{}
	if err := s.read(ctx, CollectionTickets, &tickets); err != nil {
		return nil, err
	}
	return normalizeTickets(tickets), nil
}

// SetTickets replaces the ticket collection.
func (s *PostgresStore) SetTickets(ctx context.Context, tickets []domain.Ticket) error {
	return s.write(ctx, CollectionTickets, tickets)
}
