// Package seed populates a development database with realistic fake data.
package seed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"

	"threads/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options controls how much data Run generates.
type Options struct {
	Users          int
	PostsPerUser   int
	MaxFollows     int
	MaxLikes       int
	RepliesPerUser int
	Password       string
}

// DefaultOptions returns sizes suitable for local development.
func DefaultOptions() Options {
	return Options{
		Users:          20,
		PostsPerUser:   5,
		MaxFollows:     8,
		MaxLikes:       15,
		RepliesPerUser: 10,
		Password:       "password123",
	}
}

// Run fills the database with fake users, posts, follows, likes, and replies.
// All seeded accounts share one password so any of them can be logged into.
func Run(db *gorm.DB, opts Options) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	users := make([]models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Name:     gofakeit.Name(),
			Bio:      gofakeit.Sentence(10),
			Password: string(hashed),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	slog.Info("seeded users", "count", len(users))

	var posts []models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			content, err := postContent()
			if err != nil {
				return err
			}
			post := models.Post{
				Content: content,
				UserID:  user.ID,
				Type:    models.PostTypeStandard,
			}
			if err := db.Create(&post).Error; err != nil {
				return fmt.Errorf("seeding post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	slog.Info("seeded posts", "count", len(posts))

	follows := 0
	for _, user := range users {
		for i := 0; i < rand.Intn(opts.MaxFollows+1); i++ {
			target := users[rand.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			edge := models.Follow{FollowerID: user.ID, FollowedID: target.ID}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
			if res.Error != nil {
				return fmt.Errorf("seeding follow: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				follows++
				notification := models.Notification{
					UserID:  target.ID,
					Type:    models.NotificationTypeFollow,
					Message: fmt.Sprintf("%s started following you", user.Username),
				}
				if err := db.Create(&notification).Error; err != nil {
					return fmt.Errorf("seeding notification: %w", err)
				}
			}
		}
	}
	slog.Info("seeded follows", "count", follows)

	likes := 0
	for _, user := range users {
		for i := 0; i < rand.Intn(opts.MaxLikes+1); i++ {
			post := posts[rand.Intn(len(posts))]
			like := models.Like{UserID: user.ID, PostID: post.ID}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
			if res.Error != nil {
				return fmt.Errorf("seeding like: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				likes++
			}
		}
	}
	slog.Info("seeded likes", "count", likes)

	replies := 0
	for _, user := range users {
		for i := 0; i < rand.Intn(opts.RepliesPerUser+1); i++ {
			post := posts[rand.Intn(len(posts))]
			reply := models.Reply{
				Content: gofakeit.Sentence(8),
				UserID:  user.ID,
				PostID:  post.ID,
			}
			if err := db.Create(&reply).Error; err != nil {
				return fmt.Errorf("seeding reply: %w", err)
			}
			replies++
		}
	}
	slog.Info("seeded replies", "count", replies)

	return nil
}

func postContent() (datatypes.JSON, error) {
	doc := map[string]interface{}{
		"text": gofakeit.Paragraph(1, 3, 12, " "),
	}
	if rand.Intn(3) == 0 {
		doc["tags"] = []string{gofakeit.Word(), gofakeit.Word()}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding seed content: %w", err)
	}
	return datatypes.JSON(raw), nil
}
