package models

import "time"

// Notification types.
const (
	NotificationTypeLike   = "like"
	NotificationTypeFollow = "follow"
	NotificationTypeReply  = "reply"
)

// Notification is a persisted event for a recipient user. Notifications are
// never deleted, only marked read.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Message   string    `gorm:"size:255;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
