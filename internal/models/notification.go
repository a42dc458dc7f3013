package models

import "time"

// Notification is a message recorded in a user's inbox. The inbox is
// append-only and ordered by creation time; records are never deleted.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	ActorID     uint      `gorm:"index" json:"actor_id"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
