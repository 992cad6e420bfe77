// Package http exposes the order coordinator over a JSON API built on echo.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultRequestTimeout = 5 * time.Second
	DefaultRateLimitRPS   = 20
)

// Handlers groups the use cases the API dispatches to.
type Handlers struct {
	// Command handlers
	CreateOrder           commands.CreateOrderCommandHandler
	EditOrder             commands.EditOrderCommandHandler
	CancelOrder           commands.CancelOrderCommandHandler
	DeleteOrder           commands.DeleteOrderCommandHandler
	ClaimOrder            commands.ClaimOrderCommandHandler
	AdvanceOrder          commands.AdvanceOrderCommandHandler
	RateOrder             commands.RateOrderCommandHandler
	SendMessage           commands.SendMessageCommandHandler
	UpdateCourierLocation commands.UpdateCourierLocationCommandHandler
	UpdateOrderLocation   commands.UpdateOrderLocationCommandHandler

	// Query handlers
	GetOrder         queries.GetOrderQueryHandler
	ListUnclaimed    queries.ListUnclaimedOrdersQueryHandler
	Gate             queries.GateQueryHandler
	ListMessages     queries.ListMessagesQueryHandler
	GetOrderLocation queries.GetOrderLocationQueryHandler
}

// LiveFeed upgrades an authorized request to the order's websocket feed.
type LiveFeed interface {
	Serve(w http.ResponseWriter, r *http.Request, orderID kernel.UUID) error
}

// Config tunes the middleware chain.
type Config struct {
	JWTSecret      []byte
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	live     LiveFeed
	logger   *slog.Logger
}

func NewServer(handlers Handlers, live LiveFeed, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		live:     live,
		logger:   logger.With("component", "http"),
	}
}

// NewEcho builds the echo instance with the middleware chain and all routes.
func (s *Server) NewEcho(ctx context.Context, cfg Config) (*echo.Echo, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = DefaultRateLimitRPS
	}

	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := s.RequestValidator(doc)
	if err != nil {
		return nil, err
	}
	if err = RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "fooddelivery")
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store:               NewRateLimiterStore(cfg.RateLimitRPS, cfg.RateLimitBurst),
		IdentifierExtractor: rateLimitIdentity,
		ErrorHandler: func(c echo.Context, err error) error {
			return s.fail(c, err)
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Code: CodeRateLimited, Message: "too many requests"})
		},
	})

	v1 := e.Group("/api/v1", s.ActorMiddleware(cfg.JWTSecret), limiter)

	// The live feed outlives any request timeout.
	v1.GET("/orders/:orderId/live", s.Live)

	routes := v1.Group("", middleware.ContextTimeout(cfg.RequestTimeout), validator)
	routes.POST("/orders", s.CreateOrder)
	routes.GET("/orders/unclaimed", s.ListUnclaimedOrders)
	routes.GET("/orders/:orderId", s.GetOrder)
	routes.DELETE("/orders/:orderId", s.DeleteOrder)
	routes.PUT("/orders/:orderId/items", s.EditOrder)
	routes.POST("/orders/:orderId/cancel", s.CancelOrder)
	routes.POST("/orders/:orderId/claim", s.ClaimOrder)
	routes.POST("/orders/:orderId/advance", s.AdvanceOrder)
	routes.GET("/orders/:orderId/permissions", s.GetPermissions)
	routes.POST("/orders/:orderId/rating", s.RateOrder)
	routes.POST("/orders/:orderId/messages", s.SendMessage)
	routes.GET("/orders/:orderId/messages", s.ListMessages)
	routes.PUT("/orders/:orderId/location", s.UpdateOrderLocation)
	routes.GET("/orders/:orderId/location", s.GetOrderLocation)
	routes.PUT("/couriers/me/location", s.UpdateCourierLocation)

	return e, nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				s.logger.WarnContext(c.Request().Context(), "Request", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.DebugContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

func fieldError(field string, err error) error {
	return errs.NewValueIsInvalidErrorWithCause(field, err)
}

func bindBody(c echo.Context, dest any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dest); err != nil {
		return fieldError("body", err)
	}
	return nil
}
