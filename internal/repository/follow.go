package repository

import (
	"context"
	"fmt"

	"threads/internal/cache"
	"threads/internal/middleware"
	"threads/internal/models"
	"threads/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	// Follow creates the edge and the "follow" notification for the target
	// in one transaction. Returns false when the edge already existed.
	Follow(ctx context.Context, follower *models.User, followedID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, follower *models.User, followedID uint) (bool, error) {
	span, ctx := observability.NewSpan(ctx, "repository.Follow")
	defer span.End()

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge := models.Follow{FollowerID: follower.ID, FollowedID: followedID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
			DoNothing: true,
		}).Create(&edge)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			// Already following; idempotent, no second notification.
			return nil
		}
		created = true

		notification := models.Notification{
			UserID:  followedID,
			Type:    models.NotificationTypeFollow,
			Message: fmt.Sprintf("%s started following you", follower.Username),
		}
		if err := tx.Create(&notification).Error; err != nil {
			return models.NewInternalError(err)
		}
		middleware.NotificationsCreated.WithLabelValues(models.NotificationTypeFollow).Inc()
		return nil
	})
	if err != nil {
		span.SetError(err)
		return false, err
	}

	if created {
		cache.InvalidateUser(ctx, follower.ID)
		cache.InvalidateUser(ctx, followedID)
	}
	return created, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateUser(ctx, followerID)
		cache.InvalidateUser(ctx, followedID)
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
