package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shopdesk/commerce-api/docs"
	"github.com/shopdesk/commerce-api/internal/api/handler"
	"github.com/shopdesk/commerce-api/internal/api/middleware"
	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs. Services are built by the
// caller so the router can be exercised against any repository backend.
type Dependencies struct {
	Log      zerolog.Logger
	Registry *domain.Registry
	Sessions ports.SessionResolver
	Auth     ports.AuthService
	Roles    ports.RoleService
	Users    ports.UserService
	Audit    ports.AuditService
	Health   map[string]handler.Pinger

	AllowOrigins []string
	// MetricsRegistry receives the HTTP metrics; nil means the default registry.
	MetricsRegistry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.MetricsRegistry != nil {
		registerer, gatherer = deps.MetricsRegistry, deps.MetricsRegistry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "commerce",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	userHandler := handler.NewUserHandler(deps.Users)
	auditHandler := handler.NewAuditHandler(deps.Audit)
	healthHandler := handler.NewHealthHandler(deps.Health)

	authn := middleware.Authenticate(deps.Sessions)
	can := func(permission string) echo.MiddlewareFunc {
		return middleware.RequirePermission(deps.Registry, permission)
	}

	// --- Probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authn)
	e.PUT("/auth/change-password", authHandler.ChangePassword, authn)
	e.PUT("/auth/profile", authHandler.UpdateProfile, authn)

	// --- Roles ---
	roles := e.Group("/roles", authn, can(domain.PermRolesManage))
	roles.GET("", roleHandler.List)
	roles.POST("", roleHandler.Create)
	roles.GET("/permissions-list", roleHandler.Permissions)
	roles.GET("/:id", roleHandler.Get)
	roles.PUT("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)

	// --- Users ---
	users := e.Group("/users", authn)
	users.GET("", userHandler.List, can(domain.PermUsersView))
	users.POST("", userHandler.Create, can(domain.PermUsersCreate))
	users.GET("/:id", userHandler.Get, can(domain.PermUsersView))
	users.PUT("/:id", userHandler.Update, can(domain.PermUsersUpdate))
	users.PUT("/:id/role", userHandler.AssignRole, can(domain.PermUsersUpdate))
	users.PUT("/:id/status", userHandler.SetStatus, can(domain.PermUsersUpdate))
	users.DELETE("/:id", userHandler.Delete, can(domain.PermUsersDelete))

	// --- Audit trail ---
	e.GET("/audit-events", auditHandler.List, authn, middleware.RequireAdmin())

	return e
}

// requestLogger feeds one structured line per request into zerolog. Auth
// headers and bodies are never logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			if user, ok := middleware.UserFromContext(c); ok {
				event = event.Str("user_id", user.ID)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
