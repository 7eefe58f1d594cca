package models

import (
	"time"

	"gorm.io/datatypes"
)

// PostTypeStandard is the default post type tag.
const PostTypeStandard = "standard_post"

// Post represents a post. Content is an opaque structured document supplied
// by the client and stored as-is.
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Content     datatypes.JSON `gorm:"not null" json:"content"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reposts     int            `gorm:"default:0" json:"reposts"`
	Type        string         `gorm:"size:50;default:standard_post" json:"type"`
	InfoIcon    datatypes.JSON `json:"info_icon,omitempty"`
	AnswerInput datatypes.JSON `json:"answer_input,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->;-:migration" json:"likes_count"`
	// RepliesCount is not persisted; computed at query time
	RepliesCount int64 `gorm:"->;-:migration" json:"replies_count"`
	// IsLiked indicates whether the current requesting user liked this post (computed)
	IsLiked bool `gorm:"->;-:migration" json:"is_liked"`

	Likes   []Like  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Replies []Reply `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
