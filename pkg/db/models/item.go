package models

import "time"

// Item is a thing an owner offers for sharing. RequestID links the item to the
// item request it was created in response to, when there is one.
type Item struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null"`
	Available   bool      `gorm:"column:available;not null"`
	OwnerID     int64     `gorm:"column:owner_id;not null;index"`
	Owner       User      `gorm:"foreignKey:OwnerID"`
	RequestID   *int64    `gorm:"column:request_id;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
