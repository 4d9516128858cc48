package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/aibuddy/aibuddy-api/internal/api/handler"
	"github.com/aibuddy/aibuddy-api/internal/api/middleware"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Verifier ports.IdentityVerifier
	Ask      ports.AskService
	Mail     ports.MailService
	Accounts handler.AccountFinder
	Pingers  map[string]handler.Pinger
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("aibuddy_http"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	askHandler := handler.NewAskHandler(d.Ask)
	mailHandler := handler.NewMailHandler(d.Mail)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	healthHandler := handler.NewHealthHandler(d.Pingers)
	authMiddleware := middleware.Auth(d.Verifier)

	// --- Health, metrics and docs (no auth required) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/google-auth", authHandler.GoogleAuth)

	// --- Authenticated routes ---
	e.GET("/profile", accountHandler.Profile, authMiddleware)
	e.POST("/ask", askHandler.Ask, authMiddleware)
	e.POST("/send-email", mailHandler.SendEmail, authMiddleware)

	admin := e.Group("/admin", authMiddleware, middleware.RequireSuperuser())
	admin.GET("/accounts", accountHandler.Lookup)

	return e
}

// requestLogger writes one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
