package models

import "time"

// Comment is renter feedback left on an item after a booking has started.
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Text      string    `gorm:"type:text;not null"`
	ItemID    int64     `gorm:"column:item_id;not null;index"`
	Item      Item      `gorm:"foreignKey:ItemID"`
	AuthorID  int64     `gorm:"column:author_id;not null"`
	Author    User      `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
