package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"shop/internal/adapters/in/http/servers"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

var registerDocOnce sync.Once

// requestValidator plugs go-playground/validator into echo.Context.Validate.
type requestValidator struct {
	validate *validator.Validate
}

func (v requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// openapiDoc serves the embedded OpenAPI document to the swagger UI.
type openapiDoc struct {
	logger *slog.Logger
}

func (d openapiDoc) ReadDoc() string {
	swagger, err := servers.GetSwagger()
	if err != nil {
		d.logger.Error("failed to load OpenAPI document", "error", err)
		return "{}"
	}
	doc, err := json.Marshal(swagger)
	if err != nil {
		d.logger.Error("failed to encode OpenAPI document", "error", err)
		return "{}"
	}
	return string(doc)
}

// NewRouter wires the server, health, metrics and API docs into an Echo
// instance.
func NewRouter(server servers.ServerInterface, logger *slog.Logger) *echo.Echo {
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, openapiDoc{logger: logger})
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"queries", c.Response().Header().Get(HeaderQueryCount),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlers(e, server)

	return e
}
