// Package document provides the document metadata endpoints. The binary
// payload lives in external storage; this service tracks ownership, metadata
// and share tokens. The share token route is public: possession of the token
// is the authorization.
package document

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/uniuri"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
)

const (
	// Path is the base path for document endpoints.
	Path = handler.APIPath + "/documents"

	// SharedPath is the public share-token lookup path.
	SharedPath = "/documents/shared"
)

// Form is the create/update request body.
type Form struct {
	handler.OrgKeys

	Title       string `json:"title"        validate:"required,max=255"`
	FileName    string `json:"file_name"    validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"max=100"`
	SizeBytes   int64  `json:"size_bytes"   validate:"min=0"`
}

// Service is the document handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the document handler.
var Handler = Service{}

// Init initializes the document handler.
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
		router.Post("/:id/share", s.RotateShareToken)
	})

	app.Get(SharedPath+"/:token", s.GetShared)
}

// List returns the documents visible to the request scope.
func (s *Service) List(c *fiber.Ctx) error {
	cond, err := handler.ListConditions(c, rls.TableDocument)
	if err != nil {
		return handler.ScopeError(c, err)
	}

	var documents []models.Document
	if err := cond.Scoped(s.db.Model(&models.Document{})).Order("id ASC").Find(&documents).Error; err != nil {
		log.Error().Err(err).Msg("failed to list documents")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(documents)
}

// Get returns one document.
func (s *Service) Get(c *fiber.Ctx) error {
	document, errResp := s.load(c)
	if document == nil {
		return errResp
	}

	return c.JSON(document)
}

// GetShared returns a document by its share token, without a session. An
// unknown token is a plain 404; there is nothing else to disclose.
func (s *Service) GetShared(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	var document models.Document
	if err := s.db.Where("share_token = ?", token).First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Msg("failed to load shared document")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(document)
}

// Create registers a document inside the request scope and mints its share
// token.
func (s *Service) Create(c *fiber.Ctx) error {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	user, ok := handler.CurrentUser(c)
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

	document := models.Document{
		Title:         form.Title,
		FileName:      form.FileName,
		ContentType:   form.ContentType,
		SizeBytes:     form.SizeBytes,
		ShareToken:    uniuri.NewLen(uniuri.ShareTokenLen),
		UploadedByID:  user.ID,
		RegionID:      *keys.RegionID,
		UniversityID:  keys.UniversityID,
		SmallGroupID:  keys.SmallGroupID,
		AlumniGroupID: keys.AlumniGroupID,
	}

	if err := s.db.Create(&document).Error; err != nil {
		log.Error().Err(err).Msg("failed to create document")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

// Update updates a document's metadata.
func (s *Service) Update(c *fiber.Ctx) error {
	document, errResp := s.load(c)
	if document == nil {
		return errResp
	}

	form, err := s.parseForm(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	document.Title = form.Title
	document.FileName = form.FileName
	document.ContentType = form.ContentType
	document.SizeBytes = form.SizeBytes

	if err := s.db.Save(document).Error; err != nil {
		log.Error().Err(err).Uint64("document_id", document.ID).Msg("failed to update document")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(document)
}

// RotateShareToken replaces the share token, invalidating previously handed
// out links.
func (s *Service) RotateShareToken(c *fiber.Ctx) error {
	document, errResp := s.load(c)
	if document == nil {
		return errResp
	}

	document.ShareToken = uniuri.NewLen(uniuri.ShareTokenLen)

	if err := s.db.Save(document).Error; err != nil {
		log.Error().Err(err).Uint64("document_id", document.ID).Msg("failed to rotate share token")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.JSON(document)
}

// Delete deletes a document's metadata row.
func (s *Service) Delete(c *fiber.Ctx) error {
	document, errResp := s.load(c)
	if document == nil {
		return errResp
	}

	if err := s.db.Delete(document).Error; err != nil {
		log.Error().Err(err).Uint64("document_id", document.ID).Msg("failed to delete document")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) load(c *fiber.Ctx) (*models.Document, error) {
	scope, ok := handler.CurrentScope(c)
	if !ok {
		return nil, handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthenticated)
	}

	id, err := handler.ParamID(c)
	if err != nil {
		return nil, handler.ScopeError(c, err)
	}

	var document models.Document
	if err := s.db.First(&document, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, handler.Error(c, fiber.StatusNotFound, handler.MsgNotFound)
		}

		log.Error().Err(err).Uint64("document_id", id).Msg("failed to load document")

		return nil, handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	res := rls.ForTable(scope, rls.TableDocument)
	if !res.AllowsRow(document.ID, document.RegionID, document.UniversityID, document.SmallGroupID, document.AlumniGroupID) {
		return nil, handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return &document, nil
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
