package config

import (
	"time"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// OIDC holds OpenID Connect provider settings for external login.
type OIDC struct {
	Enabled      bool
	Issuer       string // provider issuer URL, e.g. https://login.example.org/realms/main
	ClientID     string
	ClientSecret string
	RedirectURL  string
	GroupsClaim  string // claim carrying organizational role groups
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	OIDC      OIDC
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}
