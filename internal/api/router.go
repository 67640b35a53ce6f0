package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/wastewise/wastewise/internal/api/handler"
	"github.com/wastewise/wastewise/internal/api/middleware"
	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
	"github.com/wastewise/wastewise/internal/infrastructure/http/handlers"
)

// Per-minute request limits by route group.
const (
	limitRegister = 5
	limitLogin    = 10
	limitProfile  = 10
	limitPassword = 5
	limitCreate   = 20
	limitUpdate   = 30
	limitHealth   = 10
)

// uploadBodyLimit leaves room for the multipart envelope around a 10MB image.
const uploadBodyLimit = "11M"

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Log            zerolog.Logger
	Env            string
	EnableDocs     bool
	AllowedOrigins []string
	UploadDir      string

	Auth     ports.AuthService
	Profiles ports.ProfileService
	Reports  ports.ReportService

	// Limiter may be nil, which disables rate limiting.
	Limiter middleware.Limiter
	DB      handlers.Pinger
	// Cache may be nil when Redis is not configured.
	Cache handlers.Pinger

	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		Skipper:               func(c echo.Context) bool { return strings.HasPrefix(c.Path(), "/docs") },
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "wastewise",
		Registerer: d.Registerer,
		Skipper:    func(c echo.Context) bool { return c.Path() == "/metrics" },
	}))

	limit := func(scope string, n int) echo.MiddlewareFunc {
		return middleware.RateLimit(d.Limiter, scope, n, d.Log)
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Profiles)
	reportHandler := handler.NewReportHandler(d.Reports)
	healthHandler := handlers.NewHealthHandler(d.Env, d.EnableDocs, d.DB, d.Cache)
	requireAuth := middleware.Auth(d.Auth)

	// --- Public routes ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness, limit("health", limitHealth))
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}
	if d.EnableDocs {
		e.GET("/docs/*", echoSwagger.WrapHandler)
	}

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, limit("register", limitRegister))
	auth.POST("/login", authHandler.Login, limit("login", limitLogin))

	// --- Authenticated routes ---
	user := e.Group("/user", requireAuth)
	user.GET("/profile", profileHandler.Get)
	user.PUT("/profile", profileHandler.Update, limit("profile", limitProfile))
	user.PUT("/password", profileHandler.UpdatePassword, limit("password", limitPassword))

	reports := e.Group("/reports", requireAuth)
	reports.POST("/create", reportHandler.Create,
		limit("create_report", limitCreate), echomiddleware.BodyLimit(uploadBodyLimit))
	reports.GET("/user/:user_id", reportHandler.ListByUser)
	reports.GET("/all", reportHandler.ListAll, middleware.RBAC(domain.RoleAdmin))
	reports.PUT("/update/:report_id", reportHandler.Update,
		middleware.RBAC(domain.RoleAdmin), limit("update_report", limitUpdate))
	reports.GET("/stats", reportHandler.Stats)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
