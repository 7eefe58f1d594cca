package server

import (
	"threads/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the authenticated user's notifications, newest first.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	notifications, err := s.notificationRepo.ListByUser(c.UserContext(), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(notifications)
}

// MarkNotificationRead marks one of the authenticated user's notifications
// as read. Another user's notification is indistinguishable from a missing one.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.notificationRepo.MarkRead(c.UserContext(), id, s.currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}
