package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// RedisStore persists each collection as one JSON blob under a namespaced
// key. Whole-collection get/set only, like every RecordStore backend.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "helpdesk"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(collection string) string {
	return s.keyPrefix + ":" + collection
}

func (s *RedisStore) read(ctx context.Context, collection string, dest any) error {
	raw, err := s.client.Get(ctx, s.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
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

func (s *RedisStore) write(ctx context.Context, collection string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	if err := s.client.Set(ctx, s.key(collection), raw, 0).Err(); err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	return nil
}

// Users returns the user collection; a missing key yields an empty slice.
func (s *RedisStore) Users(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.read(ctx, CollectionUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUsers replaces the user collection.
func (s *RedisStore) SetUsers(ctx context.Context, users []domain.User) error {
	return s.write(ctx, CollectionUsers, users)
}

// Tickets returns the ticket collection; a missing key yields an empty slice.
func (s *RedisStore) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets := []domain.Ticket{}
	if err := s.read(ctx, CollectionTickets, &tickets); err != nil {
		return nil, err
	}
	return normalizeTickets(tickets), nil
}

// SetTickets replaces the ticket collection.
func (s *RedisStore) SetTickets(ctx context.Context, tickets []domain.Ticket) error {
	return s.write(ctx, CollectionTickets, tickets)
}
