// Package user provides the account administration endpoints. They are
// reserved for unrestricted scopes (superadmin, national office): regional
// and group leaders manage their data, not accounts.
package user

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/auth"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/uniuri"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

const (
	// Path is the base path for account administration endpoints.
	Path = handler.APIPath + "/admin/users"

	defaultListLimit = 50
	maxListLimit     = 500
)

// CreateForm is the create request body. When the password is omitted one is
// generated and returned once in the response.
type CreateForm struct {
	Username  string `json:"username"   validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"omitempty,min=12"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
}

// PasswordForm is the password reset request body.
type PasswordForm struct {
	Password string `json:"password" validate:"required,min=12"`
}

// Service is the account administration handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	validator   *validator.Validate
	local       *auth.LocalProvider
	authService *auth.Service
}

// Handler is the account administration handler.
var Handler = Service{}

// Init initializes the account administration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)

		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()
	s.local = auth.NewLocalProvider(db)
	s.authService = authService

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.List)
		router.Post(handler.RootPath, s.Create)
		router.Get("/:id", s.Get)
		router.Put("/:id/password", s.ResetPassword)
		router.Put("/:id/activate", s.Activate)
		router.Put("/:id/deactivate", s.Deactivate)
		router.Delete("/:id", s.Delete)

		router.Get("/:id/assignments", s.ListAssignments)
		router.Post("/:id/assignments", s.GrantAssignment)
		router.Delete("/:id/assignments/:assignmentID", s.RevokeAssignment)
	})
}

// List returns user accounts with pagination (?limit=, ?offset=,
// ?authSource=, ?active=).
func (s *Service) List(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}

	offset := c.QueryInt("offset")
	if offset < 0 {
		offset = 0
	}

	var active *bool

	if raw := c.Query("active"); raw != "" {
		value := raw == "true"
		active = &value
	}

	users, total, err := s.local.ListUsers(models.AuthSource(c.Query("authSource")), active, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}

// Get returns one user account with its role assignments.
func (s *Service) Get(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	assignments, err := s.authService.ListRoleAssignments(target.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to list role assignments")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	target.RoleAssignments = assignments

	return c.JSON(target)
}

// Create creates a local user account.
func (s *Service) Create(c *fiber.Ctx) error {
	if err := handler.RequireUnrestricted(c); err != nil {
		return handler.ScopeError(c, err)
	}

	form := new(CreateForm)
	if err := c.BodyParser(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	password := form.Password
	generated := password == ""

	if generated {
		password = uniuri.NewLen(2 * uniuri.StdLen)
	}

	created, err := s.local.CreateUser(form.Username, form.Email, password, form.FirstName, form.LastName)
	if err != nil {
		if errors.Is(err, auth.ErrUserNameOrEmailExists) {
			return handler.Error(c, fiber.StatusConflict, err.Error())
		}

		log.Error().Err(err).Str("username", form.Username).Msg("failed to create user")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	log.Info().Str("username", created.Username).Msg("user account created")

	response := fiber.Map{"user": created}
	if generated {
		// Returned exactly once; only the hash is stored.
		response["generated_password"] = password
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// ResetPassword sets a new password on a local account.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	form := new(PasswordForm)
	if err := c.BodyParser(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(form); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := s.local.ResetPassword(target.ID, form.Password); err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to reset password")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Activate enables a user account.
func (s *Service) Activate(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	if err := s.local.ActivateUser(target.ID); err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to activate user")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Deactivate disables a user account without deleting it.
func (s *Service) Deactivate(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	if err := s.local.DeactivateUser(target.ID); err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to deactivate user")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a user account.
func (s *Service) Delete(c *fiber.Ctx) error {
	target, errResp := s.loadTarget(c)
	if target == nil {
		return errResp
	}

	if err := s.local.DeleteUser(target.ID); err != nil {
		log.Error().Err(err).Uint64("user_id", target.ID).Msg("failed to delete user")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// loadTarget runs the admin guard and fetches the addressed user account.
func (s *Service) loadTarget(c *fiber.Ctx) (*models.User, error) {
	if err := handler.RequireUnrestricted(c); err != nil {
		return nil, handler.ScopeError(c, err)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	target, err := s.local.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to load user")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return target, nil
}
