// Package repository implements the data access layer for the application.
package repository

import (
	"strings"

	"gorm.io/gorm"
)

// userCountsSelect adds follower/following counts as subquery columns so a
// single query produces a fully serialized user.
const userCountsSelect = "users.*, " +
	"(SELECT COUNT(*) FROM follows WHERE follows.followed_id = users.id) AS followers_count, " +
	"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) AS following_count"

// withUserCounts applies the computed-count select to a users query. Also
// usable inside Preload("User", withUserCounts).
func withUserCounts(db *gorm.DB) *gorm.DB {
	return db.Select(userCountsSelect)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports
	// "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
