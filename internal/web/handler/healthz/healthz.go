// Package healthz provides the liveness endpoint used by load balancers.
package healthz

import (
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

const (
	// Path is the path to the health endpoint.
	Path = "/healthz"
)

// Service is the health handler service.
type Service struct {
	alive *atomic.Bool
}

// Handler is the health handler.
var Handler = Service{}

// Init initializes the health handler. The alive flag is owned by the web
// service, which flips it to false during graceful shutdown so load
// balancers drain this instance before the listener stops.
func (s *Service) Init(app *fiber.App, alive *atomic.Bool) error {
	if app == nil || alive == nil {
		return errors.New("app or alive flag is nil")
	}

	s.alive = alive

	app.Get(Path, s.Get)

	return nil
}

// Get reports liveness.
func (s *Service) Get(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "shutting down"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
