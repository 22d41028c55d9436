// Package contribution provides the fundraising endpoints: contribution
// designations (the purposes money is given toward) and the contributions
// recorded against them. Contribution rows carry no organizational keys of
// their own; they inherit the scope of their designation.
package contribution

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
	// Path is the base path for designation endpoints.
	Path = handler.APIPath + "/designations"
)

// Form is the create/update request body for designations.
type Form struct {
	handler.OrgKeys

	Name        string `json:"name"        validate:"required,max=150"`
	Description string `json:"description" validate:"max=500"`
	GoalCents   int64  `json:"goal_cents"  validate:"min=0"`
}

// Service is the contribution handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the contribution handler.
var Handler = Service{}

// Init initializes the contribution handler.
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

		router.Get("/:id/contributions", s.ListContributions)
		router.Post("/:id/contributions", s.CreateContribution)
		router.Delete("/:id/contributions/:contributionID", s.DeleteContribution)
	})
}

// List returns the designations visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableDesignation)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var designations []models.ContributionDesignation
	if err := cond.Scoped(s.db.Model(&models.ContributionDesignation{})).
		Order("id ASC").Find(&designations).Error; err != nil {
		log.Error().Err(err).Msg("failed to list designations")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(designations)
}

// Get returns one designation.
func (s *Service) Get(c *fiber.Ctx) error {
	designation, errResp := s.load(c)
	if designation == nil {
		return errResp
	}

	return c.JSON(designation)
}

// Create creates a designation inside the request scope.
func (s *Service) Create(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	keys, err := handler.WriteKeys(scope, form.Filter())
	if err != nil {
		return handler.ScopeError(c, err)
	}

	if keys.RegionID == nil {
		return handler.Error(c, fiber.StatusBadRequest, "region_id is required")
	}

	designation := models.ContributionDesignation{
		Name:          form.Name,
		Description:   form.Description,
		GoalCents:     form.GoalCents,
		RegionID:      *keys.RegionID,
		UniversityID:  keys.UniversityID,
		SmallGroupID:  keys.SmallGroupID,
		AlumniGroupID: keys.AlumniGroupID,
	}

	if err := s.db.Create(&designation).Error; err != nil {
		log.Error().Err(err).Msg("failed to create designation")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(designation)
}

// Update updates a designation's payload fields.
func (s *Service) Update(c *fiber.Ctx) error {
	designation, errResp := s.load(c)
	if designation == nil {
		return errResp
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	designation.Name = form.Name
	designation.Description = form.Description
	designation.GoalCents = form.GoalCents

	if err := s.db.Save(designation).Error; err != nil {
		log.Error().Err(err).Uint64("designation_id", designation.ID).Msg("failed to update designation")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(designation)
}

// Delete deletes a designation. The foreign key restricts deletion while
// contributions still reference it.
func (s *Service) Delete(c *fiber.Ctx) error {
	designation, errResp := s.load(c)
	if designation == nil {
		return errResp
	}

	if err := s.db.Delete(designation).Error; err != nil {
		log.Error().Err(err).Uint64("designation_id", designation.ID).Msg("failed to delete designation")

		return handler.Error(c, fiber.StatusConflict, "designation still has contributions")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) load(c *fiber.Ctx) (*models.ContributionDesignation, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var designation models.ContributionDesignation
	if err := s.db.First(&designation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("designation_id", id).Msg("failed to load designation")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	res := rls.ForTable(scope, rls.TableDesignation)
	if !res.AllowsRow(
		designation.ID,
		designation.RegionID,
		designation.UniversityID,
		designation.SmallGroupID,
		designation.AlumniGroupID,
	) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &designation, nil
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
