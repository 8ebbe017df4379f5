// Package handler holds shared constants and the common service interface
// for the web handler packages.
package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// PublicLayout is the layout for public blog pages, themed per blog.
	PublicLayout = "layouts/public"

	// RootPath is the root path of the route group.
	RootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// CurrentUserLocal is the fiber.Locals key carrying the session user.
	CurrentUserLocal = "CurrentUser"
)
