package bookings

import (
	"time"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	"github.com/lenditapp/lendit-backend/pkg/enums"
)

// BookingItemDTO is the resolved item embedded in booking responses.
type BookingItemDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// BookingUserDTO is the resolved booker embedded in booking responses.
type BookingUserDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDTO exposes a booking with its item and booker resolved, not as bare
// foreign keys.
type BookingDTO struct {
	ID        int64               `json:"id"`
	StartAt   time.Time           `json:"start_at"`
	EndAt     time.Time           `json:"end_at"`
	Status    enums.BookingStatus `json:"status"`
	Item      BookingItemDTO      `json:"item"`
	Booker    BookingUserDTO      `json:"booker"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreateBookingInput holds creation-time data for a new booking.
type CreateBookingInput struct {
	ItemID  int64
	StartAt time.Time
	EndAt   time.Time
}

// FromModel maps the persisted booking into a DTO. Item and Booker must be
// loaded on the model.
func FromModel(m *models.Booking) *BookingDTO {
	if m == nil {
		return nil
	}
	return &BookingDTO{
		ID:      m.ID,
		StartAt: m.StartAt,
		EndAt:   m.EndAt,
		Status:  m.Status,
		Item: BookingItemDTO{
			ID:      m.Item.ID,
			Name:    m.Item.Name,
			OwnerID: m.Item.OwnerID,
		},
		Booker: BookingUserDTO{
			ID:   m.Booker.ID,
			Name: m.Booker.Name,
		},
		CreatedAt: m.CreatedAt,
	}
}

// FromModels maps a slice of bookings, preserving order.
func FromModels(ms []models.Booking) []BookingDTO {
	dtos := make([]BookingDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
