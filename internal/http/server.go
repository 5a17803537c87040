package http

import (
	"context"
	"log/slog"

	"drinks-service/internal/auth"
	"drinks-service/internal/config"
	"drinks-service/internal/http/handler"
	"drinks-service/internal/http/middleware"
	"drinks-service/internal/types"
	"drinks-service/pkg/metrics"
	"drinks-service/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	requestBodyLimit = "1M"
	paramDrinkID     = "id"

	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

type ServerDependencies struct {
	Config          *config.Config
	Logger          *slog.Logger
	Drinks          handler.DrinkRepository
	AuditLogger     types.AuditLogger
	AuthMiddleware  *auth.Middleware
	Metrics         *metrics.Metrics
	MetricsGatherer prometheus.Gatherer
	HealthChecks    map[string]handler.HealthChecker
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(deps.Metrics.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.Config.HTTP.CORSAllowOrigins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
	}))

	// Global limiter keys by client IP; the identity limiter runs after
	// authorization on protected routes and keys by token subject.
	globalRateLimiter := middleware.NewRateLimiter(deps.Config.HTTP.RateLimitRPS, deps.Config.HTTP.RateLimitBurst)
	identityRateLimiter := middleware.NewRateLimiter(deps.Config.HTTP.RateLimitRPS, deps.Config.HTTP.RateLimitBurst)
	e.Use(globalRateLimiter.Middleware())

	drinkHandler := handler.NewDrinkHandler(deps.Drinks, deps.AuditLogger)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	protected := func(permission string, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		return append(extra,
			deps.AuthMiddleware.RequirePermission(permission),
			identityRateLimiter.Middleware(),
		)
	}
	drinkID := middleware.RequireNumericParam(paramDrinkID)

	e.GET("/health", healthHandler.Health)
	if deps.Config.HTTP.EnableProfiling {
		profiling.RegisterPprofRoutes(e)
	}
	if deps.MetricsGatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(deps.MetricsGatherer)))
	}

	e.GET("/drinks", drinkHandler.ListDrinks)
	e.GET("/drinks-detail", drinkHandler.ListDrinkDetails, protected(PermissionGetDrinksDetail)...)
	e.POST("/drinks", drinkHandler.CreateDrink, protected(PermissionPostDrinks)...)
	e.PATCH("/drinks/:id", drinkHandler.UpdateDrink, protected(PermissionPatchDrinks, drinkID)...)
	e.DELETE("/drinks/:id", drinkHandler.DeleteDrink, protected(PermissionDeleteDrinks, drinkID)...)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	if s.deps.Logger != nil {
		s.deps.Logger.Info("http server listening", "address", address)
	}
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for in-process use such as tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}
