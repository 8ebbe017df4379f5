// Package web implements the HTTP layer: the Fiber application, its
// middleware chain and the route handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	fiberlogger "github.com/inkpress/inkpress/internal/logger/adapter/fiber"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/handler/blogadmin"
	"github.com/inkpress/inkpress/internal/web/handler/blogapi"
	"github.com/inkpress/inkpress/internal/web/handler/dashboard"
	"github.com/inkpress/inkpress/internal/web/handler/home"
	"github.com/inkpress/inkpress/internal/web/handler/posteditor"
	"github.com/inkpress/inkpress/internal/web/handler/public"
	"github.com/inkpress/inkpress/internal/web/handler/signin"
	"github.com/inkpress/inkpress/internal/web/handler/signout"
	"github.com/inkpress/inkpress/internal/web/handler/signup"
	"github.com/inkpress/inkpress/internal/web/session"
)

// CheckAliveURI is the liveness probe path.
const CheckAliveURI = "/healthz"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("join", strings.Join)

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "inkpress",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAliveURI,
		SessionCookie: session.CookieName,
	}))

	// session cookie middleware
	app.Use(NewAuthMiddleware(db))

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}

	service.alive.Store(true)

	app.Get(CheckAliveURI, service.checkAlive)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes)
	mustInit(home.Handler.Init(app, cfg, db), "home")
	mustInit(signin.Handler.Init(app, cfg, db), "signin")
	mustInit(signup.Handler.Init(app, cfg, db), "signup")
	mustInit(signout.Handler.Init(app, cfg, db), "signout")
	mustInit(dashboard.Handler.Init(app, cfg, db), "dashboard")
	mustInit(blogadmin.Handler.Init(app, cfg, db), "blogadmin")
	mustInit(posteditor.Handler.Init(app, cfg, db), "posteditor")
	mustInit(blogapi.Handler.Init(app, cfg, db), "blogapi")
	mustInit(public.Handler.Init(app, cfg, db), "public")

	// unmatched routes get the shared 404 page
	app.Use(handler.RenderNotFound)

	return service
}

// checkAlive returns 200 while the service is serving and 503 once a
// graceful shutdown has started.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("ok")
}

func mustInit(err error, name string) {
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to init %s handler", name)
	}
}
