package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"threads/internal/cache"
	"threads/internal/middleware"
	"threads/internal/models"
	"threads/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, user *models.User, post *models.Post) error
	Unlike(ctx context.Context, userID, postID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User", withUserCounts).
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		// Anonymous reads share one cache entry; per-user is_liked makes
		// authenticated reads uncacheable.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User", withUserCounts).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "repository.SearchPosts")
	defer span.End()

	var posts []*models.Post
	like := "%" + strings.ToLower(query) + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User", withUserCounts).
		Where("LOWER(CAST(content AS TEXT)) LIKE ?", like).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM replies WHERE replies.post_id = posts.id) AS replies_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked", currentUserID)
	}

	return db.Select(selectQuery + ", 0 AS is_liked")
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	// Explicit cascade inside one transaction keeps the delete portable
	// across engines that don't enforce FK cascades by default.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// Like inserts a like and, when the liker is not the author, a "like"
// notification for the author, in one transaction. The composite unique index
// on likes makes the insert race-free; a conflicting insert affects zero rows
// and is reported as already liked.
func (r *postRepository) Like(ctx context.Context, user *models.User, post *models.Post) error {
	span, ctx := observability.NewSpan(ctx, "repository.LikePost")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: user.ID, PostID: post.ID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Create(&like)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewValidationError("Post already liked")
		}

		if post.UserID != user.ID {
			notification := models.Notification{
				UserID:  post.UserID,
				Type:    models.NotificationTypeLike,
				Message: fmt.Sprintf("%s liked your post", user.Username),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return models.NewInternalError(err)
			}
			middleware.NotificationsCreated.WithLabelValues(models.NotificationTypeLike).Inc()
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewValidationError("Post not liked")
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}
