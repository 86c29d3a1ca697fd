package models

import (
	"time"

	"github.com/lenditapp/lendit-backend/pkg/enums"
)

// Booking is a time-bounded request to use an item. Both participants (the
// booker and the item's owner) may read it; only the owner decides it.
type Booking struct {
	ID        int64               `gorm:"primaryKey;autoIncrement"`
	StartAt   time.Time           `gorm:"column:start_at;not null"`
	EndAt     time.Time           `gorm:"column:end_at;not null"`
	ItemID    int64               `gorm:"column:item_id;not null;index:idx_bookings_item_start,priority:1"`
	Item      Item                `gorm:"foreignKey:ItemID"`
	BookerID  int64               `gorm:"column:booker_id;not null;index:idx_bookings_booker_start,priority:1"`
	Booker    User                `gorm:"foreignKey:BookerID"`
	Status    enums.BookingStatus `gorm:"type:text;not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
