package items

import (
	"time"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
)

// ItemDTO exposes catalog data in API responses.
type ItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

// BookingRefDTO is the short booking shape embedded in owner item views.
type BookingRefDTO struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
}

// CommentDTO exposes a comment with its author resolved to a display name.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemDetailDTO is the enriched item view. LastBooking and NextBooking are
// populated only when the caller owns the item.
type ItemDetailDTO struct {
	ItemDTO
	LastBooking *BookingRefDTO `json:"last_booking,omitempty"`
	NextBooking *BookingRefDTO `json:"next_booking,omitempty"`
	Comments    []CommentDTO   `json:"comments"`
}

// CreateItemInput holds creation-time data for a new item.
type CreateItemInput struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// UpdateItemInput captures the fields a PATCH may change. Nil means "leave as
// is".
type UpdateItemInput struct {
	Name        *string
	Description *string
	Available   *bool
}

// FromModel maps the persisted item into a DTO.
func FromModel(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Available:   m.Available,
		OwnerID:     m.OwnerID,
		RequestID:   m.RequestID,
	}
}

// FromModels maps a slice of items, preserving order.
func FromModels(ms []models.Item) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}

func bookingRef(m *models.Booking) *BookingRefDTO {
	if m == nil {
		return nil
	}
	return &BookingRefDTO{
		ID:       m.ID,
		BookerID: m.BookerID,
		StartAt:  m.StartAt,
		EndAt:    m.EndAt,
	}
}

func commentFromModel(m *models.Comment) CommentDTO {
	return CommentDTO{
		ID:         m.ID,
		Text:       m.Text,
		AuthorName: m.Author.Name,
		CreatedAt:  m.CreatedAt,
	}
}

func commentsFromModels(ms []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, commentFromModel(&ms[i]))
	}
	return dtos
}
