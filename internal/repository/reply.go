package repository

import (
	"context"
	"fmt"

	"threads/internal/cache"
	"threads/internal/middleware"
	"threads/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines persistence operations for replies.
type ReplyRepository interface {
	// Create inserts the reply and, when the replier is not the post author,
	// a "reply" notification, in one transaction.
	Create(ctx context.Context, user *models.User, post *models.Post, content string) (*models.Reply, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Reply, error)
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository returns a new ReplyRepository implementation.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, user *models.User, post *models.Post, content string) (*models.Reply, error) {
	reply := models.Reply{
		Content: content,
		UserID:  user.ID,
		PostID:  post.ID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return models.NewInternalError(err)
		}

		if post.UserID != user.ID {
			notification := models.Notification{
				UserID:  post.UserID,
				Type:    models.NotificationTypeReply,
				Message: fmt.Sprintf("%s replied to your post", user.Username),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return models.NewInternalError(err)
			}
			middleware.NotificationsCreated.WithLabelValues(models.NotificationTypeReply).Inc()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, post.ID)
	reply.User = user
	return &reply, nil
}

func (r *replyRepository) ListByPost(ctx context.Context, postID uint) ([]models.Reply, error) {
	var replies []models.Reply
	if err := r.db.WithContext(ctx).
		Preload("User", withUserCounts).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&replies).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}
