package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ferienhaus/kalender-api/internal/api/handler"
	"github.com/ferienhaus/kalender-api/internal/api/middleware"
	"github.com/ferienhaus/kalender-api/internal/core/domain"
	"github.com/ferienhaus/kalender-api/internal/core/ports"
	"github.com/ferienhaus/kalender-api/internal/core/service"
	"github.com/ferienhaus/kalender-api/internal/core/token"
	"github.com/ferienhaus/kalender-api/internal/infrastructure/config"
	"github.com/ferienhaus/kalender-api/internal/infrastructure/db/postgres"
	redisdb "github.com/ferienhaus/kalender-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; login throttling is then disabled.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("kalender"))

	// --- Dependencies ---
	registry := domain.NewRegistry(domain.DefaultParties())
	codec := token.NewCodec(cfg.Session.SecretKey, cfg.Session.TTL())
	creds := service.NewCredentials(registry, cfg.Secrets.PartySecrets(), cfg.Secrets.Admin)

	var limiter ports.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginLimiter(rdb)
	}
	authService := service.NewAuthService(creds, codec, limiter, log)

	bookingRepo := postgres.NewBookingRepository(db)
	bookingService := service.NewBookingService(bookingRepo, registry, log)

	authHandler := handler.NewAuthHandler(authService)
	partyHandler := handler.NewPartyHandler(registry)
	bookingHandler := handler.NewBookingHandler(bookingService)
	authMiddleware := middleware.Auth(codec)

	// --- Public routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Authenticated API ---
	api := e.Group("/api", authMiddleware)
	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/parties", partyHandler.List)
	api.GET("/bookings", bookingHandler.List)
	api.POST("/bookings", bookingHandler.Create)
	api.PUT("/bookings/:id", bookingHandler.Update)
	api.DELETE("/bookings/:id", bookingHandler.Delete)

	// --- Calendar frontend ---
	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	return e
}
