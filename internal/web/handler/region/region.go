// Package region provides the region management endpoints. Regions are the
// top of the organizational hierarchy; creating and deleting them is
// reserved for unrestricted scopes, and a region-scoped principal sees
// exactly their own row.
package region

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

const (
	// Path is the base path for region endpoints.
	Path = handler.APIPath + "/regions"
)

// Form is the create/update request body.
type Form struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
}

// Service is the region handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the region handler.
var Handler = Service{}

// Init initializes the region handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)

		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Post(handler.RootPath, s.Create)
		router.Get("/:id", s.Get)
		router.Put("/:id", s.Update)
		router.Delete("/:id", s.Delete)
	})
}

// List returns the regions visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableRegion)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var regions []models.Region
	if err := cond.Scoped(s.db.Model(&models.Region{})).Order("id ASC").Find(&regions).Error; err != nil {
		log.Error().Err(err).Msg("failed to list regions")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(regions)
}

// Get returns one region.
func (s *Service) Get(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var region models.Region
	if err := s.db.First(&region, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("region_id", id).Msg("failed to load region")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if !rls.CanAccess(scope, rls.ResourceRegion, id) {
		return handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return c.JSON(region)
}

// Create creates a region. Reserved for unrestricted scopes.
func (s *Service) Create(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	region := models.Region{
		Name:        form.Name,
		Description: form.Description,
	}

	if err := s.db.Create(&region).Error; err != nil {
		log.Error().Err(err).Str("name", form.Name).Msg("failed to create region")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(region)
}

// Update updates a region's display fields.
func (s *Service) Update(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var region models.Region
	if err := s.db.First(&region, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("region_id", id).Msg("failed to load region")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if !rls.CanAccess(scope, rls.ResourceRegion, id) {
		return handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	region.Name = form.Name
	region.Description = form.Description

	if err := s.db.Save(&region).Error; err != nil {
		log.Error().Err(err).Uint64("region_id", id).Msg("failed to update region")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(region)
}

// Delete deletes a region. Reserved for unrestricted scopes.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	result := s.db.Delete(&models.Region{}, id)
	if result.Error != nil {
		log.Error().Err(result.Error).Uint64("region_id", id).Msg("failed to delete region")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if result.RowsAffected == 0 {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) parseForm(c *fiber.Ctx) (*Form, error) {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return nil, errors.New("invalid request body")
	}

	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	return form, nil
}
