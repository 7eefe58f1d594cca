package server

import (
	"strconv"

	"threads/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID parses a numeric route parameter.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid ID")
	}
	return uint(id), nil
}

// currentUser returns the authenticated user set by AuthRequired.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
