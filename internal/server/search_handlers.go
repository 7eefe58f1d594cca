package server

import (
	"strings"

	"threads/internal/models"

	"github.com/gofiber/fiber/v2"
)

// searchLimit caps the number of results per search request.
const searchLimit = 20

// SearchUsers finds users whose username or display name contains the query.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusOK).JSON([]models.User{})
	}

	users, err := s.userRepo.Search(c.UserContext(), query, searchLimit)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// SearchPosts finds posts whose content contains the query.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusOK).JSON([]models.Post{})
	}

	posts, err := s.postRepo.Search(c.UserContext(), query, searchLimit, s.optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}
