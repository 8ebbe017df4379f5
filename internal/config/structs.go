package config

import (
	"time"

	"github.com/inkpress/inkpress/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Analytics settings for page-view tracking.
type Analytics struct {
	// Disabled skips provisioning of the analytics table. Dashboards then
	// render a labeled placeholder summary instead of live numbers.
	Disabled bool
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Analytics Analytics
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}
