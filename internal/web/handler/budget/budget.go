// Package budget provides the budget line endpoints. Amounts are carried in
// cents end to end.
package budget

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
	// Path is the base path for budget endpoints.
	Path = handler.APIPath + "/budgets"
)

// Form is the create/update request body.
type Form struct {
	handler.OrgKeys

	Name        string `json:"name"         validate:"required,max=150"`
	FiscalYear  int    `json:"fiscal_year"  validate:"required,min=2000,max=2200"`
	AmountCents int64  `json:"amount_cents" validate:"min=0"`
	SpentCents  int64  `json:"spent_cents"  validate:"min=0"`
}

// Service is the budget handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the budget handler.
var Handler = Service{}

// Init initializes the budget handler.
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

// List returns the budget lines visible to the request scope, optionally
// narrowed by ?fiscalYear=.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableBudget)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	tx := cond.Scoped(s.db.Model(&models.Budget{}))

	if year := c.QueryInt("fiscalYear"); year > 0 {
		tx = tx.Where("fiscal_year = ?", year)
	}

	var budgets []models.Budget
	if err := tx.Order("id ASC").Find(&budgets).Error; err != nil {
		log.Error().Err(err).Msg("failed to list budgets")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(budgets)
}

// Get returns one budget line.
func (s *Service) Get(c *fiber.Ctx) error {
	budget, errResp := s.load(c)
	if budget == nil {
		return errResp
	}

	return c.JSON(budget)
}

// Create creates a budget line inside the request scope.
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

	budget := models.Budget{
		Name:          form.Name,
		FiscalYear:    form.FiscalYear,
		AmountCents:   form.AmountCents,
		SpentCents:    form.SpentCents,
		RegionID:      *keys.RegionID,
		UniversityID:  keys.UniversityID,
		SmallGroupID:  keys.SmallGroupID,
		AlumniGroupID: keys.AlumniGroupID,
	}

	if err := s.db.Create(&budget).Error; err != nil {
		log.Error().Err(err).Msg("failed to create budget")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(budget)
}

// Update updates a budget line's payload fields.
func (s *Service) Update(c *fiber.Ctx) error {
	budget, errResp := s.load(c)
	if budget == nil {
		return errResp
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	budget.Name = form.Name
	budget.FiscalYear = form.FiscalYear
	budget.AmountCents = form.AmountCents
	budget.SpentCents = form.SpentCents

	if err := s.db.Save(budget).Error; err != nil {
		log.Error().Err(err).Uint64("budget_id", budget.ID).Msg("failed to update budget")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(budget)
}

// Delete deletes a budget line.
func (s *Service) Delete(c *fiber.Ctx) error {
	budget, errResp := s.load(c)
	if budget == nil {
		return errResp
	}

	if err := s.db.Delete(budget).Error; err != nil {
		log.Error().Err(err).Uint64("budget_id", budget.ID).Msg("failed to delete budget")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) load(c *fiber.Ctx) (*models.Budget, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var budget models.Budget
	if err := s.db.First(&budget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("budget_id", id).Msg("failed to load budget")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	res := rls.ForTable(scope, rls.TableBudget)
	if !res.AllowsRow(budget.ID, budget.RegionID, budget.UniversityID, budget.SmallGroupID, budget.AlumniGroupID) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &budget, nil
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
