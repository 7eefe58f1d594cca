package server

import (
	"github.com/gofiber/fiber/v2"

	"threads/internal/models"
)

// fiberApp returns a bare Fiber app for handler tests.
func fiberApp() *fiber.App {
	return fiber.New()
}

// asUser returns middleware that injects an authenticated user, standing in
// for AuthRequired in handler tests.
func asUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", user.ID)
		c.Locals("currentUser", user)
		return c.Next()
	}
}
