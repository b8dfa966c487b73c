package router

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"projecthub/internal/auth"
	"projecthub/internal/config"
	"projecthub/internal/errors"
	"projecthub/internal/handler"
	"projecthub/internal/logging"
	"projecthub/internal/storage"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth       *handler.AuthHandler
	Project    *handler.ProjectHandler
	Attachment *handler.AttachmentHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	gate *auth.Gate,
	store storage.Store,
	h Handlers,
) {
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logging.RequestLogger(log))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = ErrorHandler(log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Attachments are public. Local files are served straight from disk.
	if local, ok := store.(*storage.LocalStore); ok {
		e.Static("/uploads", local.Dir())
	} else {
		e.GET("/uploads/:name", h.Attachment.Serve)
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	// Secured routes
	secured := api.Group("", gate.Middleware())

	secured.GET("/auth/profile", h.Auth.Profile)

	secured.GET("/projects", h.Project.ListProjects)
	secured.POST("/projects", h.Project.CreateProject)
	secured.GET("/projects/me", h.Project.MyProjects)
	secured.GET("/projects/user/:id", h.Project.UserProjects)
	secured.GET("/projects/user/:id/profile", h.Project.UserProfile)
	secured.GET("/projects/:id", h.Project.GetProject)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every error as {"error": message}. Errors that are
// not HTTP errors become a generic 500; the request logger records the cause.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errors.ErrorResponse{Error: "Server error"}

		var he *echo.HTTPError
		if stderrors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case errors.ErrorResponse:
				body = msg
			case string:
				body.Error = msg
			default:
				body.Error = fmt.Sprint(msg)
			}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}
