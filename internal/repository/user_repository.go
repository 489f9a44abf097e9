package repository

import (
	"context"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/store"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// UserRepository gives per-record semantics over the user collection.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) error
}

type userRepository struct {
	records store.RecordStore
}

// NewUserRepository instantiates repository.
func NewUserRepository(records store.RecordStore) UserRepository {
	return &userRepository{records: records}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	users, err := r.records.Users(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, util.NewNotFound("user", map[string]any{"username": username})
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.records.Users(ctx)
}

// Create appends a user. Username collisions are a case-sensitive exact
// match check.
func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	users, err := r.records.Users(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Username == user.Username {
			return util.NewDuplicateKey("username already exists", map[string]any{"username": user.Username})
		}
	}
	return r.records.SetUsers(ctx, append(users, user))
}
