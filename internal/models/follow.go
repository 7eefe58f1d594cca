package models

import "time"

// Follow is a directed follow edge from follower to followed.
// The composite unique index makes duplicate edges impossible at the storage
// layer, so concurrent duplicate follow requests cannot race past a check.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
