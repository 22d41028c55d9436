// Package settings provides the application settings administration
// endpoints. Settings are named JSON blobs (registration defaults, notice
// texts); the server stores them opaquely and hands them back as-is.
package settings

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/controller/setting"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

const (
	// Path is the base path for settings administration endpoints.
	Path = handler.APIPath + "/admin/settings"
)

// Service is the settings handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)

		return
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Get("/:name", s.Get)
		router.Put("/:name", s.Set)
		router.Delete("/:name", s.Delete)
	})
}

// List returns all settings.
func (s *Service) List(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	settings, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	out := make(map[string]json.RawMessage, len(settings))
	for _, row := range settings {
		out[row.Name] = row.Value
	}

	return c.JSON(out)
}

// Get returns one setting's value.
func (s *Service) Get(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	row, err := setting.Get(s.db, c.Params("name"))
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Str("name", c.Params("name")).Msg("failed to load setting")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(row.Value)
}

// Set stores one setting. The body must be valid JSON; it is stored opaquely.
func (s *Service) Set(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	body := c.Body()
	if !json.Valid(body) {
		return handler.Error(c, fiber.StatusBadRequest, "body must be valid JSON")
	}

	row, err := setting.Set(s.db, c.Params("name"), append([]byte(nil), body...))
	if err != nil {
		if errors.Is(err, setting.ErrSettingNameEmpty) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Str("name", c.Params("name")).Msg("failed to store setting")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(row.Value)
}

// Delete removes one setting.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	if err := setting.DeleteByName(s.db, c.Params("name")); err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Str("name", c.Params("name")).Msg("failed to delete setting")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
