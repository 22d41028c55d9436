// Package scope provides the middleware that turns a user's role assignments
// into one effective organizational scope per request.
//
// Assignments are re-read from the database on every request rather than
// cached in the session, so granting or revoking an assignment takes effect
// on the user's next request. A user without any usable assignment cannot be
// placed in the organization at all and is rejected as unauthenticated, not
// as forbidden.
package scope

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/auth"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

// New returns the scope resolution middleware. It must run after the session
// middleware; requests without an authenticated user in locals (the public
// paths) pass through untouched.
func New(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := handler.CurrentUser(c)
		if !ok {
			return c.Next()
		}

		assignments, err := authService.Assignments(user.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to load role assignments")

			return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
		}

		resolved, ok := rls.Resolve(assignments)
		if !ok {
			return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
		}

		c.Locals(handler.LocalsKeyScope, resolved)

		return c.Next()
	}
}
