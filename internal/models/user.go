// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	// FollowersCount is not persisted; computed at query time
	FollowersCount int64 `gorm:"->;-:migration" json:"followers_count"`
	// FollowingCount is not persisted; computed at query time
	FollowingCount int64 `gorm:"->;-:migration" json:"following_count"`

	Posts         []Post         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
	Replies       []Reply        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
