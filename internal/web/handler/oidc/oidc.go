// Package oidc provides the OpenID Connect login flow. Group claims carried
// by the provider are synchronized into organizational role assignments on
// every login, so the identity provider stays the source of truth for who
// oversees which part of the hierarchy.
package oidc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/auth"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = "/auth/oidc/login"

	// CallbackPath is the path for the OIDC callback.
	CallbackPath = "/auth/oidc/callback"

	stateTTL = 5 * time.Minute
)

// Service is the OIDC handler service.
type Service struct {
	cfg          *config.Config
	db           *gorm.DB
	oidcProvider *auth.OIDCProvider
	authService  *auth.Service

	stateMu    sync.Mutex
	stateStore map[string]time.Time
}

// Handler is the OIDC handler.
var Handler = Service{
	stateStore: make(map[string]time.Time),
}

// Init initializes the OIDC handler. When OIDC is disabled or the provider
// cannot be reached, local login stays available and these routes are simply
// not registered.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)

		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = auth.NewService(db)

	if !cfg.OIDC.Enabled {
		return
	}

	oidcProvider, err := auth.NewOIDCProvider(context.Background(), &cfg.OIDC, db)
	if err != nil {
		if errors.Is(err, auth.ErrOIDCDisabled) {
			log.Info().Msg("OIDC authentication is disabled by configuration")
		} else {
			log.Warn().Err(err).Msg("failed to initialize OIDC provider, OIDC login disabled")
		}

		return
	}

	s.oidcProvider = oidcProvider

	log.Info().Str("issuer", cfg.OIDC.Issuer).Msg("OIDC authentication provider initialized")

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)

	go s.cleanupStates()
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	if s.oidcProvider == nil {
		return handler.Error(c, fiber.StatusServiceUnavailable, "OIDC authentication is not available")
	}

	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate state token")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	s.stateMu.Lock()
	s.stateStore[state] = time.Now().Add(stateTTL)
	s.stateMu.Unlock()

	return c.Redirect(s.oidcProvider.GetAuthURL(state))
}

// Callback handles the OIDC callback: verify state, exchange the code, upsert
// the user, and replace their provider-sourced role assignments from the
// group claims.
func (s *Service) Callback(c *fiber.Ctx) error {
	if s.oidcProvider == nil {
		return handler.Error(c, fiber.StatusServiceUnavailable, "OIDC authentication is not available")
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return handler.Error(c, fiber.StatusBadRequest, "invalid callback parameters")
	}

	if !s.consumeState(state) {
		return handler.Error(c, fiber.StatusBadRequest, "invalid or expired state token")
	}

	authenticatedUser, groups, err := s.oidcProvider.HandleCallback(c.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")

		return handler.Error(c, fiber.StatusUnauthorized, "authentication failed")
	}

	if err = s.authService.SyncAssignments(authenticatedUser.ID, groups); err != nil {
		log.Error().Err(err).Uint64("user_id", authenticatedUser.ID).
			Msg("failed to sync role assignments from OIDC groups")
	}

	sessionID, errSession := session.GenerateSessionID()
	if errSession != nil {
		log.Error().Err(errSession).Msg("failed to generate session ID")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	userSession := &session.Data{User: *authenticatedUser}
	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return handler.Error(c, fiber.StatusInternalServerError, handler.MsgInternalError)
	}

	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("username", authenticatedUser.Username).Msg("user logged in via OIDC")

	return c.Redirect(handler.RootPath)
}

// consumeState validates and removes a state token in one step.
func (s *Service) consumeState(state string) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	expiration, exists := s.stateStore[state]
	if !exists {
		return false
	}

	delete(s.stateStore, state)

	return time.Now().Before(expiration)
}

// cleanupStates periodically removes expired state tokens.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		s.stateMu.Lock()

		for state, expiration := range s.stateStore {
			if now.After(expiration) {
				delete(s.stateStore, state)
			}
		}

		s.stateMu.Unlock()
	}
}
