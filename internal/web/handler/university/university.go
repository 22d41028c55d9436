// Package university provides the university (campus) management endpoints.
package university

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
	// Path is the base path for university endpoints.
	Path = handler.APIPath + "/universities"
)

// Form is the create/update request body. The region is fixed at creation;
// campuses do not move between regions.
type Form struct {
	Name     string `json:"name"      validate:"required,max=150"`
	City     string `json:"city"      validate:"max=100"`
	RegionID uint64 `json:"region_id" validate:"required"`
}

// Service is the university handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the university handler.
var Handler = Service{}

// Init initializes the university handler.
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

// List returns the universities visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableUniversity)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var universities []models.University
	if err := cond.Scoped(s.db.Model(&models.University{})).Order("id ASC").Find(&universities).Error; err != nil {
		log.Error().Err(err).Msg("failed to list universities")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(universities)
}

// Get returns one university.
func (s *Service) Get(c *fiber.Ctx) error {
	university, errResp := s.load(c)
	if university == nil {
		return errResp
	}

	return c.JSON(university)
}

// Create creates a university under a region the request scope controls.
func (s *Service) Create(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	// Creating a campus is an act on its parent region.
	if !rls.CanAccess(scope, rls.ResourceRegion, form.RegionID) {
		return handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	var region models.Region
	if err := s.db.First(&region, form.RegionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusBadRequest, "region does not exist")
		}

		log.Error().Err(err).Uint64("region_id", form.RegionID).Msg("failed to load region")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	university := models.University{
		Name:     form.Name,
		City:     form.City,
		RegionID: form.RegionID,
	}

	if err := s.db.Create(&university).Error; err != nil {
		log.Error().Err(err).Str("name", form.Name).Msg("failed to create university")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(university)
}

// Update updates a university's display fields.
func (s *Service) Update(c *fiber.Ctx) error {
	university, errResp := s.load(c)
	if university == nil {
		return errResp
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	university.Name = form.Name
	university.City = form.City

	if err := s.db.Save(university).Error; err != nil {
		log.Error().Err(err).Uint64("university_id", university.ID).Msg("failed to update university")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(university)
}

// Delete deletes a university.
func (s *Service) Delete(c *fiber.Ctx) error {
	university, errResp := s.load(c)
	if university == nil {
		return errResp
	}

	if err := s.db.Delete(university).Error; err != nil {
		log.Error().Err(err).Uint64("university_id", university.ID).Msg("failed to delete university")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the university from the ":id" parameter and runs the point
// access check. The 404 on a lookup miss comes before the 403, disclosing
// existence; an accepted tradeoff for operability.
func (s *Service) load(c *fiber.Ctx) (*models.University, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var university models.University
	if err := s.db.First(&university, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("university_id", id).Msg("failed to load university")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if !rls.CanAccess(scope, rls.ResourceUniversity, id) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &university, nil
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
