package repository

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"threads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepositoryLike(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author.ID, "hello world")

	require.NoError(t, repo.Like(ctx, liker, post))

	// The author gets exactly one notification
	assert.Equal(t, int64(1), countNotifications(t, db, author.ID, models.NotificationTypeLike))

	// A second like is rejected and does not notify again
	err := repo.Like(ctx, liker, post)
	requireAppStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, int64(1), countNotifications(t, db, author.ID, models.NotificationTypeLike))
}

func TestPostRepositoryLikeOwnPostNoNotification(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID, "self like")

	require.NoError(t, repo.Like(ctx, author, post))
	assert.Equal(t, int64(0), countNotifications(t, db, author.ID, models.NotificationTypeLike))
}

func TestPostRepositoryUnlike(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author.ID, "hello")

	// Unliking before liking is an error
	err := repo.Unlike(ctx, liker.ID, post.ID)
	requireAppStatus(t, err, http.StatusBadRequest)

	require.NoError(t, repo.Like(ctx, liker, post))
	require.NoError(t, repo.Unlike(ctx, liker.ID, post.ID))

	err = repo.Unlike(ctx, liker.ID, post.ID)
	requireAppStatus(t, err, http.StatusBadRequest)
}

func TestPostRepositoryComputedFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author.ID, "counted")

	require.NoError(t, repo.Like(ctx, liker, post))
	require.NoError(t, db.Create(&models.Reply{
		Content: "a reply",
		UserID:  liker.ID,
		PostID:  post.ID,
	}).Error)

	// Viewed by the liker
	got, err := repo.GetByID(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.Equal(t, int64(1), got.RepliesCount)
	assert.True(t, got.IsLiked)
	require.NotNil(t, got.User)
	assert.Equal(t, author.Username, got.User.Username)

	// Viewed by the author, who has not liked it
	got, err = repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, got.IsLiked)

	// Anonymous view
	got, err = repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.False(t, got.IsLiked)
	assert.Equal(t, int64(1), got.LikesCount)
}

func TestPostRepositoryGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 9999, 0)
	requireAppStatus(t, err, http.StatusNotFound)
}

func TestPostRepositorySearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	createTestPost(t, db, author.ID, "The Quick Brown Fox")
	createTestPost(t, db, author.ID, "something else entirely")

	results, err := repo.Search(ctx, "quick brown", 20, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = repo.Search(ctx, "zebra", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPostRepositorySearchLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	author := createTestUser(t, db, "author")
	for i := 0; i < 25; i++ {
		createTestPost(t, db, author.ID, fmt.Sprintf("needle number %d", i))
	}

	results, err := repo.Search(context.Background(), "needle", 20, 0)
	require.NoError(t, err)
	assert.Len(t, results, 20)
}

func TestPostRepositoryDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")
	post := createTestPost(t, db, author.ID, "doomed")

	require.NoError(t, repo.Like(ctx, liker, post))
	require.NoError(t, db.Create(&models.Reply{
		Content: "soon gone",
		UserID:  liker.ID,
		PostID:  post.ID,
	}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID, 0)
	requireAppStatus(t, err, http.StatusNotFound)

	var likes, replies int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	require.NoError(t, db.Model(&models.Reply{}).Where("post_id = ?", post.ID).Count(&replies).Error)
	assert.Zero(t, likes)
	assert.Zero(t, replies)
}
