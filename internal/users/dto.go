package users

import (
	"time"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
)

// UserDTO exposes user data in API responses.
type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserInput holds creation-time data for a new user.
type CreateUserInput struct {
	Name  string
	Email string
}

// UpdateUserInput captures the fields a PATCH may change. Nil means "leave as
// is", matching partial-update semantics.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

// FromModels maps a slice of users, preserving order.
func FromModels(ms []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
