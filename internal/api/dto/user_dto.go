package dto

import "github.com/school-kit/helpdesk-service/internal/domain"

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Name     string      `json:"name" validate:"required"`
	Role     domain.Role `json:"role" validate:"required"`
}
