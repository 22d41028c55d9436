// Package logout provides the logout endpoint.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/session"
)

const (
	// Path is the path to the logout endpoint.
	Path = "/logout"
)

// Service is the logout handler service.
type Service struct{}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App) error {
	if app == nil {
		return errors.New("app is nil")
	}

	app.Post(Path, s.Post)

	return nil
}

// Post invalidates the session server side and clears the cookie. Logging
// out with no session is a no-op, not an error.
func (s *Service) Post(c *fiber.Ctx) error {
	if sessionID := c.Cookies(session.CookieName); sessionID != "" {
		_ = session.Delete(sessionID)
	}

	c.ClearCookie(session.CookieName)

	return c.SendStatus(fiber.StatusNoContent)
}
