package server

import "github.com/gofiber/fiber/v2"

// handleListNotifications returns the caller's notifications, newest first,
// then marks them all read. The response carries the read flags as they were
// before the bulk mark, since the snapshot is taken first.
func (s *Server) handleListNotifications(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	notifications, err := s.notifications.ListFor(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	if err := s.notifications.MarkAllRead(c.UserContext(), user.ID); err != nil {
		return err
	}

	return c.JSON(notifications)
}

func (s *Server) handleClearNotifications(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := s.notifications.ClearFor(c.UserContext(), user.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "notifications deleted successfully"})
}
