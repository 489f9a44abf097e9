package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/repository"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// UserService handles account management. Accounts are created by admins
// and never deleted.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUserInput describes a new account.
type CreateUserInput struct {
	Username string
	Password string
	Name     string
	Role     domain.Role
}

// Create validates and persists a new account. Admin only; duplicate
// usernames are rejected with a case-sensitive exact match.
func (s *UserService) Create(ctx context.Context, actor domain.Principal, input CreateUserInput) (domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.User{}, util.NewUnauthorized("only admins may create users")
	}

	var missing []string
	if strings.TrimSpace(input.Username) == "" {
		missing = append(missing, "username")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(string(input.Role)) == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return domain.User{}, util.NewValidationError(
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing},
		)
	}
	if !input.Role.IsValid() {
		return domain.User{}, util.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	user := domain.User{
		Username: strings.TrimSpace(input.Username),
		Password: input.Password,
		Name:     strings.TrimSpace(input.Name),
		Role:     input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// List returns every account as credential-free principals.
func (s *UserService) List(ctx context.Context) ([]domain.Principal, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Principal, 0, len(users))
	for _, u := range users {
		out = append(out, u.Principal())
	}
	return out, nil
}

// Admins returns the usernames holding the admin role, for assignment
// target pickers.
func (s *UserService) Admins(ctx context.Context) ([]domain.Principal, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Principal{}
	for _, u := range users {
		if u.Role == domain.RoleAdmin {
			out = append(out, u.Principal())
		}
	}
	return out, nil
}
