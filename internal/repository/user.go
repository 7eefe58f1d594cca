package repository

import (
	"context"
	"errors"
	"strings"

	"threads/internal/cache"
	"threads/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Update persists the editable profile fields (name, bio, avatar URL).
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the cache record for a user. The wire model hides the
// password hash from JSON, so the cache carries it under its own key; a
// cache hit must hydrate the same record a database read would.
type cachedUser struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var cached cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &cached, cache.UserTTL, func() error {
		if err := withUserCounts(r.db.WithContext(ctx)).First(&cached.User, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		cached.PasswordHash = cached.User.Password
		return nil
	})

	if err != nil {
		return nil, err
	}

	user := cached.User
	user.Password = cached.PasswordHash
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// Backstop for the existence pre-checks: the unique indexes on
		// username/email win any race.
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Username or email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update persists the editable profile fields (name, bio, avatar URL).
// The password hash is never written through this path.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Updates(map[string]interface{}{
			"name":       user.Name,
			"bio":        user.Bio,
			"avatar_url": user.AvatarURL,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := withUserCounts(r.db.WithContext(ctx)).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	like := "%" + strings.ToLower(query) + "%"
	if err := withUserCounts(r.db.WithContext(ctx)).
		Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", like, like).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
