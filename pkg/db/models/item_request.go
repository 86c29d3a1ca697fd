package models

import "time"

// ItemRequest is a free-text "I want an item like X" posting. Items created in
// fulfillment reference it via their request_id column; the request itself
// stores nothing about them.
type ItemRequest struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Description string    `gorm:"type:text;not null"`
	RequesterID int64     `gorm:"column:requester_id;not null;index"`
	Requester   User      `gorm:"foreignKey:RequesterID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
