package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"quizhub/docs"
	"quizhub/internal/config"
	"quizhub/internal/handler"
	"quizhub/internal/metrics"
	mw "quizhub/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Questions *handler.QuestionHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logrus.FieldLogger,
	gatherer prometheus.Gatherer,
	gate *mw.Gate,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(mw.RequestLogger(log))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/me", gate.Require(h.Auth.Me))

	api.POST("/users", h.Users.Register)
	api.GET("/users", h.Users.List)
	api.GET("/users/:id", h.Users.Get)
	api.PATCH("/users", gate.Require(h.Users.ChangePassword))
	api.DELETE("/users", gate.Require(h.Users.Delete))
	api.POST("/users/forget", h.Users.Forget)
	api.PATCH("/users/reset", h.Users.Reset)

	api.GET("/questions", h.Questions.List)
	api.GET("/questions/:id", h.Questions.Get)
	api.POST("/questions", gate.Require(h.Questions.Create))
	api.PATCH("/questions/:id", gate.Require(h.Questions.Update))
	api.DELETE("/questions/:id", gate.Require(h.Questions.Delete))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
