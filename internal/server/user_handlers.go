package server

import (
	"log/slog"

	"threads/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the body for PUT /users/profile. Pointer fields
// distinguish omitted keys from explicit empty values.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// GetUsers returns all users.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// GetUser returns a single user by ID.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// GetProfile returns the authenticated user's own profile.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(s.currentUser(c))
}

// UpdateProfile updates the authenticated user's editable profile fields.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user := s.currentUser(c)
	if req.Name != nil {
		if *req.Name == "" {
			return models.RespondWithError(c, models.NewValidationError("Name cannot be empty"))
		}
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.userRepo.Update(c.UserContext(), user); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// FollowUser makes the authenticated user follow the target user.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	follower := s.currentUser(c)
	if follower.ID == targetID {
		return models.RespondWithError(c, models.NewValidationError("Cannot follow yourself"))
	}

	ctx := c.UserContext()
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return models.RespondWithError(c, err)
	}

	created, err := s.followRepo.Follow(ctx, follower, targetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if created {
		slog.InfoContext(ctx, "follow created", "follower_id", follower.ID, "followed_id", targetID)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User followed successfully",
	})
}

// UnfollowUser removes the authenticated user's follow of the target user.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	ctx := c.UserContext()
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.followRepo.Unfollow(ctx, s.currentUserID(c), targetID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User unfollowed successfully",
	})
}
