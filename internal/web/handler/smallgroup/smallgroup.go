// Package smallgroup provides the student small group management endpoints.
package smallgroup

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
	// Path is the base path for small group endpoints.
	Path = handler.APIPath + "/smallgroups"
)

// Form is the create/update request body. The university is fixed at
// creation; the region key is denormalized from the university row, never
// taken from the client.
type Form struct {
	Name         string `json:"name"          validate:"required,max=150"`
	MeetingDay   string `json:"meeting_day"   validate:"max=20"`
	UniversityID uint64 `json:"university_id" validate:"required"`
}

// Service is the small group handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the small group handler.
var Handler = Service{}

// Init initializes the small group handler.
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

// List returns the small groups visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableSmallGroup)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var groups []models.SmallGroup
	if err := cond.Scoped(s.db.Model(&models.SmallGroup{})).Order("id ASC").Find(&groups).Error; err != nil {
		log.Error().Err(err).Msg("failed to list small groups")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(groups)
}

// Get returns one small group.
func (s *Service) Get(c *fiber.Ctx) error {
	group, errResp := s.load(c)
	if group == nil {
		return errResp
	}

	return c.JSON(group)
}

// Create creates a small group under a university the request scope controls.
func (s *Service) Create(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	// Creating a group is an act on its parent university.
	if !rls.CanAccess(scope, rls.ResourceUniversity, form.UniversityID) {
		return handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	var university models.University
	if err := s.db.First(&university, form.UniversityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusBadRequest, "university does not exist")
		}

		log.Error().Err(err).Uint64("university_id", form.UniversityID).Msg("failed to load university")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	group := models.SmallGroup{
		Name:         form.Name,
		MeetingDay:   form.MeetingDay,
		RegionID:     university.RegionID,
		UniversityID: university.ID,
	}

	if err := s.db.Create(&group).Error; err != nil {
		log.Error().Err(err).Str("name", form.Name).Msg("failed to create small group")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// Update updates a small group's display fields.
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
	group.MeetingDay = form.MeetingDay

	if err := s.db.Save(group).Error; err != nil {
		log.Error().Err(err).Uint64("small_group_id", group.ID).Msg("failed to update small group")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(group)
}

// Delete deletes a small group.
func (s *Service) Delete(c *fiber.Ctx) error {
	group, errResp := s.load(c)
	if group == nil {
		return errResp
	}

	if err := s.db.Delete(group).Error; err != nil {
		log.Error().Err(err).Uint64("small_group_id", group.ID).Msg("failed to delete small group")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) load(c *fiber.Ctx) (*models.SmallGroup, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var group models.SmallGroup
	if err := s.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("small_group_id", id).Msg("failed to load small group")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	if !rls.CanAccess(scope, rls.ResourceSmallGroup, id) {
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
