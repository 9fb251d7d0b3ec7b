package echoapi

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/edusoma/portal/core"
	"github.com/edusoma/portal/core/auth"
	"github.com/edusoma/portal/core/student"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Logger      core.Logger
		ExchangeCli *auth.ExchangeClient
		StudentSvc  *student.Service

		// Shutdown is called when a shutdown-worthy error is caught by the
		// HTTP error handler. Optional.
		Shutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Shutdown == nil {
		opts.Shutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(routeGuard)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Shutdown)
	s.app.Debug = debug && !core.Conf.TestMode
	s.app.HideBanner = true

	registerAuthAPI(s.app, s.opts.ExchangeCli)
	registerStudentAPI(s.app, s.opts.StudentSvc)
	registerMetrics(s.app)

	s.app.Static("/static", filepath.Join(core.Conf.WorkDir, "static"))

	// Page routes are rendered by the UI layer; the gateway only serves the
	// app shell and lets the guard decide who gets this far.
	s.app.GET("/", home)
	s.app.Any("/*", appShell)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+"!")
}

func appShell(ctx echo.Context) error {
	return ctx.String(http.StatusOK, core.Conf.AppName+" Portal")
}
