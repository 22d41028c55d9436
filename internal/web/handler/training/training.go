// Package training provides the training management endpoints.
package training

import (
	"errors"
	"time"

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
	// Path is the base path for training endpoints.
	Path = handler.APIPath + "/trainings"
)

// Form is the create/update request body.
type Form struct {
	handler.OrgKeys

	Name        string    `json:"name"        validate:"required,max=150"`
	Description string    `json:"description" validate:"max=500"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// Service is the training handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the training handler.
var Handler = Service{}

// Init initializes the training handler.
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

// List returns the trainings visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableTraining)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var trainings []models.Training
	if err := cond.Scoped(s.db.Model(&models.Training{})).Order("id ASC").Find(&trainings).Error; err != nil {
		log.Error().Err(err).Msg("failed to list trainings")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(trainings)
}

// Get returns one training.
func (s *Service) Get(c *fiber.Ctx) error {
	training, errResp := s.load(c)
	if training == nil {
		return errResp
	}

	return c.JSON(training)
}

// Create creates a training inside the request scope.
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

	training := models.Training{
		Name:          form.Name,
		Description:   form.Description,
		StartsAt:      form.StartsAt,
		EndsAt:        form.EndsAt,
		RegionID:      *keys.RegionID,
		UniversityID:  keys.UniversityID,
		SmallGroupID:  keys.SmallGroupID,
		AlumniGroupID: keys.AlumniGroupID,
	}

	if err := s.db.Create(&training).Error; err != nil {
		log.Error().Err(err).Msg("failed to create training")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(training)
}

// Update updates a training's payload fields.
func (s *Service) Update(c *fiber.Ctx) error {
	training, errResp := s.load(c)
	if training == nil {
		return errResp
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	training.Name = form.Name
	training.Description = form.Description
	training.StartsAt = form.StartsAt
	training.EndsAt = form.EndsAt

	if err := s.db.Save(training).Error; err != nil {
		log.Error().Err(err).Uint64("training_id", training.ID).Msg("failed to update training")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(training)
}

// Delete deletes a training.
func (s *Service) Delete(c *fiber.Ctx) error {
	training, errResp := s.load(c)
	if training == nil {
		return errResp
	}

	if err := s.db.Delete(training).Error; err != nil {
		log.Error().Err(err).Uint64("training_id", training.ID).Msg("failed to delete training")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) load(c *fiber.Ctx) (*models.Training, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var training models.Training
	if err := s.db.First(&training, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("training_id", id).Msg("failed to load training")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	res := rls.ForTable(scope, rls.TableTraining)
	if !res.AllowsRow(training.ID, training.RegionID, training.UniversityID, training.SmallGroupID, training.AlumniGroupID) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &training, nil
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
