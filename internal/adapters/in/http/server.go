// Package http is the REST surface of the orchestrator, served by echo.
// Every route except /health and the payment webhook requires a bearer
// token; error kinds map to status codes in errorHandler.
package http

import (
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Config struct {
	JWTSecret string
	BodyLimit string
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	PlaceOrder           *commands.PlaceOrderCommandHandler
	UpdateOrderStatus    *commands.UpdateOrderStatusCommandHandler
	CancelOrder          *commands.CancelOrderCommandHandler
	SimulateMovement     *commands.SimulateMovementCommandHandler
	CreatePaymentIntent  *commands.CreatePaymentIntentCommandHandler
	RefundPayment        *commands.RefundPaymentCommandHandler
	HandleGatewayEvent   *commands.HandleGatewayEventCommandHandler
	AssignCourier        *commands.AssignCourierCommandHandler
	UpdateDeliveryStatus *commands.UpdateDeliveryStatusCommandHandler
	RegisterCourier      *commands.RegisterCourierCommandHandler
	ReviewCourier        *commands.ReviewCourierCommandHandler
	ReportLocation       *commands.ReportLocationCommandHandler

	ListOrders         queries.ListOrdersQueryHandler
	GetOrderDetail     queries.GetOrderDetailQueryHandler
	TrackOrder         queries.TrackOrderQueryHandler
	GetCourierLocation queries.GetCourierLocationQueryHandler
	GetPaymentStatus   queries.GetPaymentStatusQueryHandler
	TrackDelivery      queries.TrackDeliveryQueryHandler
	ListCouriers       queries.ListCouriersQueryHandler
}

type Server struct {
	cfg    Config
	h      Handlers
	logger *slog.Logger
}

func NewServer(cfg Config, handlers Handlers, logger *slog.Logger) *Server {
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "1M"
	}
	return &Server{
		cfg:    cfg,
		h:      handlers,
		logger: logger.With("component", "http"),
	}
}

type requestValidator struct {
	validate *validator.Validate
}

func (v requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// Echo builds the configured echo instance with every route registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = errorHandler(s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(s.cfg.BodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(s.requestLoggerConfig()))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	v1 := e.Group("/api/v1")
	v1.POST("/payments/webhook", s.PaymentWebhook)

	api := v1.Group("", jwtMiddleware(s.cfg.JWTSecret), actorMiddleware)

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/track", s.TrackOrder)
	api.GET("/orders/:id/courier-location", s.GetCourierLocation)
	api.POST("/orders/:id/simulate", s.SimulateMovement)

	api.POST("/payments", s.CreatePayment)
	api.GET("/payments/:orderId", s.GetPaymentStatus)
	api.POST("/payments/:orderId/refund", s.RefundPayment)

	api.POST("/deliveries/:id/assign", s.AssignCourier)
	api.PATCH("/deliveries/:id/status", s.UpdateDeliveryStatus)
	api.GET("/deliveries/:id/track", s.TrackDelivery)

	api.GET("/couriers", s.ListCouriers)
	api.POST("/couriers", s.RegisterCourier)
	api.POST("/couriers/:id/review", s.ReviewCourier)
	api.PUT("/couriers/me/location", s.ReportLocation)

	return e
}

func (s *Server) requestLoggerConfig() middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
