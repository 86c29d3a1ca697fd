package requests

import (
	"time"

	"github.com/lenditapp/lendit-backend/internal/items"
	"github.com/lenditapp/lendit-backend/pkg/db/models"
)

// ItemRequestDTO exposes a request with its fulfillment set attached. Items is
// always present, empty when nothing fulfills the request yet.
type ItemRequestDTO struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	RequesterID int64           `json:"requester_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []items.ItemDTO `json:"items"`
}

// CreateRequestInput holds creation-time data for a new item request.
type CreateRequestInput struct {
	Description string
}

// FromModel maps the persisted request into a DTO with the given fulfillment
// set.
func FromModel(m *models.ItemRequest, fulfillment []models.Item) *ItemRequestDTO {
	if m == nil {
		return nil
	}
	return &ItemRequestDTO{
		ID:          m.ID,
		Description: m.Description,
		RequesterID: m.RequesterID,
		CreatedAt:   m.CreatedAt,
		Items:       items.FromModels(fulfillment),
	}
}
