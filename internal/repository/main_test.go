package repository

import (
	"fmt"
	"testing"

	"threads/internal/database"
	"threads/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int

// newTestDB opens a fresh in-memory SQLite database with the full schema.
// Each call gets its own named database so tests cannot see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     "Test " + username,
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, text string) *models.Post {
	t.Helper()

	post := &models.Post{
		Content: datatypes.JSON(fmt.Sprintf(`{"text":%q}`, text)),
		UserID:  userID,
		Type:    models.PostTypeStandard,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func requireAppStatus(t *testing.T, err error, status int) {
	t.Helper()

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.Status)
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint, kind string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, kind).
		Count(&count).Error)
	return count
}
