package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/tcapp/account-admin/docs"
	"github.com/tcapp/account-admin/internal/api/handler"
	"github.com/tcapp/account-admin/internal/api/middleware"
	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/service"
	"github.com/tcapp/account-admin/internal/infrastructure/config"
	mongostore "github.com/tcapp/account-admin/internal/infrastructure/db/mongo"
	redisstore "github.com/tcapp/account-admin/internal/infrastructure/db/redis"
	"github.com/tcapp/account-admin/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	repo := mongostore.NewAccountRepository(db)
	codec := service.NewPasswordCodec(cfg.HashPasswords)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	throttle := redisstore.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)

	authService := service.NewAuthService(repo, codec, tokens, throttle, logger.Get())
	accountService := service.NewAccountService(repo, codec, logger.Get())
	dashboardService := service.NewDashboardService(repo)

	authHandler := handler.NewAuthHandler(authService, accountService)
	accountHandler := handler.NewAccountHandler(accountService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	authed := middleware.Auth(tokens)
	managerOnly := middleware.MinimumRole(domain.RoleManager)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- Authenticated self-service routes ---
	auth := e.Group("/auth", authed)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/profile", authHandler.Profile)
	auth.PUT("/profile", authHandler.UpdateProfile)
	auth.PUT("/password", authHandler.ChangePassword)

	// --- Account management (manager and above; per-operation policy lives
	// in the service layer) ---
	users := e.Group("/users", authed, managerOnly)
	users.POST("", accountHandler.Create)
	users.GET("", accountHandler.List)
	users.GET("/search", accountHandler.Search)
	users.GET("/:id", accountHandler.Get)
	users.PUT("/:id", accountHandler.Update)
	users.PATCH("/:id/status", accountHandler.ToggleStatus)
	users.DELETE("/:id", accountHandler.Delete)

	// --- Dashboard (manager and above) ---
	dashboard := e.Group("/dashboard", authed, managerOnly)
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/activity", dashboardHandler.RecentActivity)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
