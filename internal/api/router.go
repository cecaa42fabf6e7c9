package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cydea/vulnbank/internal/api/handler"
	"github.com/cydea/vulnbank/internal/api/middleware"
	"github.com/cydea/vulnbank/internal/core/ports"
	"github.com/cydea/vulnbank/internal/core/service"
	"github.com/cydea/vulnbank/internal/infrastructure/config"
	mongodb "github.com/cydea/vulnbank/internal/infrastructure/db/mongo"
	"github.com/cydea/vulnbank/internal/ratelimit"
)

// Deps carries the infrastructure the router wires together.
type Deps struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	Config    *config.Config
	Logger    zerolog.Logger
	RateStore ratelimit.Store
	Audit     ports.AuditSink
}

// NewRouter builds the Echo instance with all routes registered.
//
// Route policy:
//   - /api/auth/** is public
//   - /api/admin/** requires the ADMIN role
//   - every other /api route requires an authenticated identity, except
//     /api/accounts/mine which degrades to an empty list for anonymous
//
// The rate limiter runs first, ahead of authentication, on all routes.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware, order matters ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("vulnbank"))
	e.Use(middleware.RateLimit(deps.RateStore, deps.Audit, deps.Logger))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.Mongo)
	accountRepo := mongodb.NewAccountRepository(deps.Mongo)

	tokenService := service.NewTokenService(
		deps.Config.JWT.Secret,
		deps.Config.JWT.TTL,
		deps.Config.JWT.Issuer,
		deps.Config.JWT.Audience,
	)
	authService := service.NewAuthService(userRepo, tokenService)
	userService := service.NewUserService(userRepo, deps.Logger)
	accountService := service.NewAccountService(accountRepo, deps.Audit, deps.Logger)

	authHandler := handler.NewAuthHandler(authService, deps.Audit)
	userHandler := handler.NewUserHandler(userService, deps.Audit)
	accountHandler := handler.NewAccountHandler(accountService)

	authContext := middleware.AuthContext(tokenService, deps.Logger)

	// --- Auth routes (public) ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)

	// --- User routes (authenticated) ---
	users := e.Group("/api/users", authContext, middleware.RequireAuth())
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/search", userHandler.Search)
	users.GET("/:id", userHandler.Get)
	// TODO: gate deletion behind RequireAdmin once the lesson moves past it.
	users.DELETE("/:id", userHandler.Delete)

	// --- Account routes ---
	accounts := e.Group("/api/accounts", authContext)
	accounts.GET("/mine", accountHandler.Mine)
	accounts.GET("/:id/balance", accountHandler.Balance, middleware.RequireAuth())
	accounts.POST("/:id/transfer", accountHandler.Transfer, middleware.RequireAuth())

	// --- Admin routes ---
	admin := e.Group("/api/admin", authContext, middleware.RequireAdmin())
	admin.GET("/users", userHandler.ListPrivileged)

	// --- Ops surface ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
