package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/session"
)

// publicPrefixes lists the paths reachable without a session: login and the
// OIDC flow by necessity, health checking for load balancers, and share-token
// document downloads, which authenticate through the token itself.
var publicPrefixes = []string{ //nolint:gochecknoglobals
	"/login",
	"/logout",
	"/auth/oidc",
	"/healthz",
	"/documents/shared",
}

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	if IsPublicPath(c.Path()) {
		return c.Next()
	}

	loginCookie := c.Cookies(session.CookieName)
	if loginCookie == "" {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	if sessData.User.ID == 0 || !sessData.User.Active {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	c.Locals(handler.LocalsKeyUser, sessData.User)

	return c.Next()
}

// IsPublicPath reports whether the path is reachable without a session.
func IsPublicPath(path string) bool {
	lowered := strings.ToLower(path)

	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}

	return false
}
