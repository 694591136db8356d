package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/talkincode/gamestore/internal/app"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebServer wraps the echo instance serving both the storefront and the
// admin surface.
type WebServer struct {
	root    *echo.Echo
	appx    *app.Application
	session sessions.Store
}

var server *WebServer

// Init builds the global web server for the given application.
func Init(appx *app.Application) *WebServer {
	server = NewWebServer(appx)
	return server
}

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewWebServer(appx *app.Application) *WebServer {
	s := &WebServer{
		root:    echo.New(),
		appx:    appx,
		session: sessions.NewCookieStore([]byte(appx.Config().Web.Secret)),
	}
	s.root.Pre(middleware.RemoveTrailingSlash())
	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.Debug = appx.Config().System.Debug
	s.root.Validator = &webValidator{validate: validator.New()}
	s.root.Use(middleware.Recover())
	s.root.Use(session.Middleware(s.session))
	s.root.Use(s.loggerMiddleware())
	s.root.Use(EnsureCsrfToken())
	s.root.HTTPErrorHandler = s.errorHandler
	return s
}

func (s *WebServer) loggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote", c.RealIP()),
			)
			return err
		}
	}
}

// errorHandler renders uncaught errors with the standard envelope.
func (s *WebServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "internal error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}
	_ = fail(c, code, "SERVER_ERROR", message, nil)
}

// Start runs the server until the listener fails or is shut down.
func (s *WebServer) Start() error {
	cfg := s.appx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("starting web server on %s", addr)
	return s.root.Start(addr)
}

func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// GetDB returns the application database handle for handlers.
func GetDB(c echo.Context) *gorm.DB {
	return server.appx.DB()
}

// package-level route registration helpers

func GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.GET(path, h, m...)
}

func POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.POST(path, h, m...)
}

func PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.PUT(path, h, m...)
}

func DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.DELETE(path, h, m...)
}

// AdminGET registers an admin-only route.
func AdminGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.GET(path, h, append([]echo.MiddlewareFunc{AdminRequired()}, m...)...)
}

// AdminPOST registers an admin-only mutating route.
func AdminPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.POST(path, h, append([]echo.MiddlewareFunc{AdminRequired()}, m...)...)
}
