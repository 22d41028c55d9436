// Package alumnigroup provides the alumni small group management endpoints.
// Alumni groups hang directly off a region; they are a sibling branch of the
// campus hierarchy, not a descendant of any university.
package alumnigroup

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
	// Path is the base path for alumni small group endpoints.
	Path = handler.APIPath + "/alumnigroups"
)

// Form is the create/update request body.
type Form struct {
	Name     string `json:"name"      validate:"required,max=150"`
	RegionID uint64 `json:"region_id" validate:"required"`
}

// Service is the alumni group handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the alumni group handler.
var Handler = Service{}

// Init initializes the alumni group handler.
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

// List returns the alumni groups visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableAlumniGroup)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var groups []models.AlumniSmallGroup
	if err := cond.Scoped(s.db.Model(&models.AlumniSmallGroup{})).Order("id ASC").Find(&groups).Error; err != nil {
		log.Error().Err(err).Msg("failed to list alumni groups")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(groups)
}

// Get returns one alumni group.
func (s *Service) Get(c *fiber.Ctx) error {
	group, errResp := s.load(c)
	if group == nil {
		return errResp
	}

	return c.JSON(group)
}

// Create creates an alumni group under a region the request scope controls.
func (s *Service) Create(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	// Creating an alumni group is an act on its parent region.
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

	group := models.AlumniSmallGroup{
		Name:     form.Name,
		RegionID: form.RegionID,
	}

	if err := s.db.Create(&group).Error; err != nil {
		log.Error().Err(err).Str("name", form.Name).Msg("failed to create alumni group")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// Update updates an alumni group's display fields.
func (s *Service) Update(c *fiber.Ctx) error {
	group, errResp := s.load(c)
	if group == nil {
		return errResp
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	group.Name = form.Name

	if err := s.db.Save(group).Error; err != nil {
		log.Error().Err(err).Uint64("alumni_group_id", group.ID).Msg("failed to update alumni group")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(group)
}

// Delete deletes an alumni group.
func (s *Service) Delete(c *fiber.Ctx) error {
	group, errResp := s.load(c)
	if group == nil {
		return errResp
	}

	if err := s.db.Delete(group).Error; err != nil {
		log.Error().Err(err).Uint64("alumni_group_id", group.ID).Msg("failed to delete alumni group")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) load(c *fiber.Ctx) (*models.AlumniSmallGroup, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var group models.AlumniSmallGroup
	if err := s.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("alumni_group_id", id).Msg("failed to load alumni group")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if !rls.CanAccess(scope, rls.ResourceAlumniGroup, id) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &group, nil
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
