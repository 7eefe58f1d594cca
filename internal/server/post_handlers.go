package server

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"threads/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreatePostRequest is the body for POST /posts. Content is an opaque
// document; its structure belongs to the client.
type CreatePostRequest struct {
	Content     json.RawMessage `json:"content"`
	Type        string          `json:"type"`
	InfoIcon    json.RawMessage `json:"info_icon"`
	AnswerInput json.RawMessage `json:"answer_input"`
}

// CreateReplyRequest is the body for POST /posts/:id/replies.
type CreateReplyRequest struct {
	Content string `json:"content"`
}

func emptyJSONValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// GetPosts returns the global feed, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.UserContext(), s.optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// GetPost returns a single post by ID.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id, s.optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// CreatePost creates a post owned by the authenticated user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if emptyJSONValue(req.Content) {
		return models.RespondWithError(c, models.NewValidationError("Content is required"))
	}

	user := s.currentUser(c)
	post := models.Post{
		Content: datatypes.JSON(req.Content),
		UserID:  user.ID,
		Type:    models.PostTypeStandard,
	}
	if req.Type != "" {
		post.Type = req.Type
	}
	if !emptyJSONValue(req.InfoIcon) {
		post.InfoIcon = datatypes.JSON(req.InfoIcon)
	}
	if !emptyJSONValue(req.AnswerInput) {
		post.AnswerInput = datatypes.JSON(req.AnswerInput)
	}

	ctx := c.UserContext()
	if err := s.postRepo.Create(ctx, &post); err != nil {
		return models.RespondWithError(c, err)
	}

	// Re-read to pick up computed counts and the author with their counts.
	created, err := s.postRepo.GetByID(ctx, post.ID, user.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	slog.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// DeletePost deletes a post the authenticated user owns.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	ctx := c.UserContext()
	userID := s.currentUserID(c)
	post, err := s.postRepo.GetByID(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if post.UserID != userID {
		return models.RespondWithError(c, models.NewForbiddenError("You can only delete your own posts"))
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return models.RespondWithError(c, err)
	}

	slog.InfoContext(ctx, "post deleted", "post_id", id, "user_id", userID)
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost records the authenticated user's like on a post.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	ctx := c.UserContext()
	user := s.currentUser(c)
	post, err := s.postRepo.GetByID(ctx, id, user.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.postRepo.Like(ctx, user, post); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post liked successfully",
	})
}

// UnlikePost removes the authenticated user's like from a post.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	ctx := c.UserContext()
	userID := s.currentUserID(c)
	if _, err := s.postRepo.GetByID(ctx, id, userID); err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.postRepo.Unlike(ctx, userID, id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post unliked successfully",
	})
}

// GetPostReplies returns the replies to a post, newest first.
func (s *Server) GetPostReplies(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	ctx := c.UserContext()
	if _, err := s.postRepo.GetByID(ctx, id, 0); err != nil {
		return models.RespondWithError(c, err)
	}

	replies, err := s.replyRepo.ListByPost(ctx, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(replies)
}

// CreateReply adds a reply to a post by the authenticated user.
func (s *Server) CreateReply(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Content == "" {
		return models.RespondWithError(c, models.NewValidationError("Content is required"))
	}

	ctx := c.UserContext()
	user := s.currentUser(c)
	post, err := s.postRepo.GetByID(ctx, id, user.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	reply, err := s.replyRepo.Create(ctx, user, post, req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	slog.InfoContext(ctx, "reply created", "post_id", post.ID, "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(reply)
}
