// Package event provides the permanent ministry event endpoints, including
// the attendance sub-resource. Attendance rows carry no organizational keys
// of their own; they inherit the scope of the event they belong to.
package event

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
	// Path is the base path for event endpoints.
	Path = handler.APIPath + "/events"
)

// Form is the create/update request body for events.
type Form struct {
	handler.OrgKeys

	Name        string    `json:"name"        validate:"required,max=150"`
	Description string    `json:"description" validate:"max=500"`
	Location    string    `json:"location"    validate:"max=255"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// Service is the event handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the event handler.
var Handler = Service{}

// Init initializes the event handler.
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

		router.Get("/:id/attendances", s.ListAttendances)
		router.Post("/:id/attendances", s.CreateAttendance)
		router.Put("/:id/attendances/:attendanceID", s.UpdateAttendance)
		router.Delete("/:id/attendances/:attendanceID", s.DeleteAttendance)
	})
}

// List returns the events visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableEvent)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var events []models.PermanentMinistryEvent
	if err := cond.Scoped(s.db.Model(&models.PermanentMinistryEvent{})).Order("id ASC").Find(&events).Error; err != nil {
		log.Error().Err(err).Msg("failed to list events")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(events)
}

// Get returns one event.
func (s *Service) Get(c *fiber.Ctx) error {
	event, errResp := s.load(c)
	if event == nil {
		return errResp
	}

	return c.JSON(event)
}

// Create creates an event inside the request scope.
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

	event := models.PermanentMinistryEvent{
		Name:          form.Name,
		Description:   form.Description,
		Location:      form.Location,
		StartsAt:      form.StartsAt,
		EndsAt:        form.EndsAt,
		RegionID:      *keys.RegionID,
		UniversityID:  keys.UniversityID,
		SmallGroupID:  keys.SmallGroupID,
		AlumniGroupID: keys.AlumniGroupID,
	}

	if err := s.db.Create(&event).Error; err != nil {
		log.Error().Err(err).Msg("failed to create event")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// Update updates an event's payload fields. Ownership keys are fixed at
// creation; a standing event does not move between groups.
func (s *Service) Update(c *fiber.Ctx) error {
	event, errResp := s.load(c)
	if event == nil {
		return errResp
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	event.Name = form.Name
	event.Description = form.Description
	event.Location = form.Location
	event.StartsAt = form.StartsAt
	event.EndsAt = form.EndsAt

	if err := s.db.Save(event).Error; err != nil {
		log.Error().Err(err).Uint64("event_id", event.ID).Msg("failed to update event")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(event)
}

// Delete deletes an event and, through the foreign key, its attendance rows.
func (s *Service) Delete(c *fiber.Ctx) error {
	event, errResp := s.load(c)
	if event == nil {
		return errResp
	}

	if err := s.db.Delete(event).Error; err != nil {
		log.Error().Err(err).Uint64("event_id", event.ID).Msg("failed to delete event")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the event from the ":id" parameter and checks its
// organizational keys against the request scope.
func (s *Service) load(c *fiber.Ctx) (*models.PermanentMinistryEvent, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var event models.PermanentMinistryEvent
	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("event_id", id).Msg("failed to load event")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	res := rls.ForTable(scope, rls.TableEvent)
	if !res.AllowsRow(event.ID, event.RegionID, event.UniversityID, event.SmallGroupID, event.AlumniGroupID) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &event, nil
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
