package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/sample-intranet/identity-api/docs"
	"github.com/sample-intranet/identity-api/internal/api/handler"
	"github.com/sample-intranet/identity-api/internal/api/middleware"
	"github.com/sample-intranet/identity-api/internal/core/ports"
	"github.com/sample-intranet/identity-api/internal/core/service"
	redisdb "github.com/sample-intranet/identity-api/internal/infrastructure/db/redis"
	"github.com/sample-intranet/identity-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The user repository is injected so startup concerns (index creation) stay
// in main.
func NewRouter(cfg *config.Config, userRepo ports.UserRepository, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLSeconds)*time.Second)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, time.Duration(cfg.LoginAttemptWindowSeconds)*time.Second)
	identity := service.NewIdentityService(userRepo, hasher, tokens, throttle, cfg.PasswordMinLength, log)

	authHandler := handler.NewAuthHandler(identity)
	userHandler := handler.NewUserHandler(identity)

	// --- Auth routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// --- Protected user directory ---
	users := v1.Group("/users", middleware.Auth())
	users.GET("", userHandler.List)
	users.GET("/search", userHandler.Search)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
