// Package handler holds the pieces shared by every web handler: the JSON
// error envelope, locals accessors for the authenticated user and the
// resolved scope, and the query/body plumbing into the access control core.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
)

// ErrBadRequest marks client input that fails to parse (wrapped with detail).
var ErrBadRequest = errors.New("bad request")

// Error writes the JSON error envelope used by every handler.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// ScopeError maps core access control errors onto the HTTP taxonomy:
// no usable identity is 401, everything the resolved scope does not cover
// (including a malformed assignment) is 403.
func ScopeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, rls.ErrUnauthenticated):
		return Error(c, fiber.StatusUnauthorized, MsgUnauthenticated)
	case errors.Is(err, rls.ErrForbidden):
		return Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, rls.ErrMalformedScope):
		return Error(c, fiber.StatusForbidden, MsgForbidden)
	case errors.Is(err, ErrBadRequest):
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	return Error(c, fiber.StatusInternalServerError, MsgInternalError)
}

// CurrentUser returns the authenticated user placed in locals by the session
// middleware.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(LocalsKeyUser).(models.User)

	return user, ok
}

// CurrentScope returns the resolved scope placed in locals by the scope
// middleware.
func CurrentScope(c *fiber.Ctx) (rls.UserScope, bool) {
	scope, ok := c.Locals(LocalsKeyScope).(rls.UserScope)

	return scope, ok
}
