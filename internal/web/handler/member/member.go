// Package member provides the member management endpoints. Member rows carry
// all four organizational keys; which of them are set expresses where in the
// hierarchy the person belongs (students get a university and usually a small
// group, alumni get an alumni group instead).
package member

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
	// Path is the base path for member endpoints.
	Path = handler.APIPath + "/members"
)

// Form is the create/update request body. The organizational keys run
// through write validation against the request scope; omitted keys are
// filled from the scope itself.
type Form struct {
	handler.OrgKeys

	FirstName string              `json:"first_name" validate:"required,max=100"`
	LastName  string              `json:"last_name"  validate:"required,max=100"`
	Email     string              `json:"email"      validate:"omitempty,email,max=255"`
	Phone     string              `json:"phone"      validate:"max=50"`
	Status    models.MemberStatus `json:"status"     validate:"omitempty,oneof=active alumni inactive"`
}

// Service is the member handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the member handler.
var Handler = Service{}

// Init initializes the member handler.
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

// List returns the members visible to the request scope, optionally narrowed
// by organizational query parameters and ?status=.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableMember)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	tx := cond.Scoped(s.db.Model(&models.Member{}))

	if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var members []models.Member
	if err := tx.Order("id ASC").Find(&members).Error; err != nil {
		log.Error().Err(err).Msg("failed to list members")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(members)
}

// Get returns one member.
func (s *Service) Get(c *fiber.Ctx) error {
	member, errResp := s.load(c)
	if member == nil {
		return errResp
	}

	return c.JSON(member)
}

// Create creates a member inside the request scope.
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

	status := form.Status
	if status == "" {
		status = models.MemberStatusActive
	}

	member := models.Member{
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Email:         form.Email,
		Phone:         form.Phone,
		Status:        status,
		RegionID:      *keys.RegionID,
		UniversityID:  keys.UniversityID,
		SmallGroupID:  keys.SmallGroupID,
		AlumniGroupID: keys.AlumniGroupID,
	}

	if err := s.db.Create(&member).Error; err != nil {
		log.Error().Err(err).Msg("failed to create member")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(member)
}

// Update updates a member. Organizational keys may be changed (a student
// moving groups, a graduate moving to an alumni group), but both the old and
// the new placement must sit inside the request scope.
func (s *Service) Update(c *fiber.Ctx) error {
	scope, _ := handler.CurrentScope(c)

	member, errResp := s.load(c)
	if member == nil {
		return errResp
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

	member.FirstName = form.FirstName
	member.LastName = form.LastName
	member.Email = form.Email
	member.Phone = form.Phone

	if form.Status != "" {
		member.Status = form.Status
	}

	member.RegionID = *keys.RegionID
	member.UniversityID = keys.UniversityID
	member.SmallGroupID = keys.SmallGroupID
	member.AlumniGroupID = keys.AlumniGroupID

	if err := s.db.Save(member).Error; err != nil {
		log.Error().Err(err).Uint64("member_id", member.ID).Msg("failed to update member")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(member)
}

// Delete removes a member.
func (s *Service) Delete(c *fiber.Ctx) error {
	member, errResp := s.load(c)
	if member == nil {
		return errResp
	}

	if err := s.db.Delete(member).Error; err != nil {
		log.Error().Err(err).Uint64("member_id", member.ID).Msg("failed to delete member")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the member from the ":id" parameter and checks the row's
// organizational keys against the same conditions list queries use, so a
// point read never shows a row a list would have filtered out.
func (s *Service) load(c *fiber.Ctx) (*models.Member, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var member models.Member
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("member_id", id).Msg("failed to load member")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	res := rls.ForTable(scope, rls.TableMember)
	if !res.AllowsRow(member.ID, member.RegionID, member.UniversityID, member.SmallGroupID, member.AlumniGroupID) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &member, nil
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
