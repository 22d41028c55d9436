// Package report provides scoped aggregate endpoints. Every aggregate runs
// over the same filtered queries the list endpoints use, so a report can
// never include rows the caller could not list.
package report

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

const (
	// Path is the base path for report endpoints.
	Path = handler.APIPath + "/reports"
)

// Service is the report handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the report handler.
var Handler = Service{}

// Init initializes the report handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)

		return
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get("/members", s.Members)
		router.Get("/attendance", s.Attendance)
		router.Get("/budgets", s.Budgets)
		router.Get("/contributions", s.Contributions)
	})
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Members returns member counts grouped by engagement status.
func (s *Service) Members(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableMember)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var counts []statusCount

	err = cond.Scoped(s.db.Model(&models.Member{})).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate members")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(fiber.Map{"by_status": counts})
}

// Attendance returns per-status attendance counts for one event.
func (s *Service) Attendance(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	eventID := uint64(c.QueryInt("eventId")) //nolint:gosec
	if eventID == 0 {
		return handler.Error(c, fiber.StatusBadRequest, "eventId is required")
	}

	var event models.PermanentMinistryEvent
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("event_id", eventID).Msg("failed to load event")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	res := rls.ForTable(scope, rls.TableEvent)
	if !res.AllowsRow(event.ID, event.RegionID, event.UniversityID, event.SmallGroupID, event.AlumniGroupID) {
		return handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	var counts []statusCount

	err := s.db.Model(&models.Attendance{}).
		Where("event_id = ?", event.ID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		log.Error().Err(err).Uint64("event_id", event.ID).Msg("failed to aggregate attendance")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(fiber.Map{
		"event_id":  event.ID,
		"by_status": counts,
	})
}

type budgetTotals struct {
	AllocatedCents int64 `json:"allocated_cents"`
	SpentCents     int64 `json:"spent_cents"`
}

// Budgets returns allocated and spent totals, optionally narrowed by
// ?fiscalYear=.
func (s *Service) Budgets(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableBudget)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	tx := cond.Scoped(s.db.Model(&models.Budget{}))

	if year := c.QueryInt("fiscalYear"); year > 0 {
		tx = tx.Where("fiscal_year = ?", year)
	}

	var totals budgetTotals

	err = tx.Select("COALESCE(SUM(amount_cents), 0) AS allocated_cents, COALESCE(SUM(spent_cents), 0) AS spent_cents").
		Scan(&totals).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate budgets")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(totals)
}

type designationTotal struct {
	DesignationID uint64 `json:"designation_id"`
	Name          string `json:"name"`
	GoalCents     int64  `json:"goal_cents"`
	RaisedCents   int64  `json:"raised_cents"`
}

// Contributions returns per-designation fundraising totals. The join keeps
// the scope conditions on the designation side; contributions inherit them.
func (s *Service) Contributions(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableDesignation)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var totals []designationTotal

	err = cond.Scoped(s.db.Model(&models.ContributionDesignation{})).
		Select(`contributiondesignations.id AS designation_id,
			contributiondesignations.name,
			contributiondesignations.goal_cents,
			COALESCE(SUM(contributions.amount_cents), 0) AS raised_cents`).
		Joins("LEFT JOIN contributions ON contributions.designation_id = contributiondesignations.id").
		Group("contributiondesignations.id, contributiondesignations.name, contributiondesignations.goal_cents").
		Order("contributiondesignations.id ASC").
		Scan(&totals).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate contributions")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(fiber.Map{"designations": totals})
}
