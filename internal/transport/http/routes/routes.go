package routes

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/CodyErekson/kitchenKiosk/internal/infra/config"
	"github.com/CodyErekson/kitchenKiosk/internal/transport/http/handlers"
	"github.com/CodyErekson/kitchenKiosk/internal/transport/http/middleware"
	"github.com/CodyErekson/kitchenKiosk/internal/usecase"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Auth        *usecase.AuthService
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(splitOrigins(deps.Config.App.CORSAllowedOrigins)))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	checks := make(map[string]handlers.HealthChecker)
	if deps.Database != nil {
		checks["database"] = handlers.HealthCheckerFunc(deps.Database.Ping)
	}
	if deps.Cache != nil {
		checks["redis"] = handlers.HealthCheckerFunc(deps.Cache.HealthCheck)
	}
	handlers.NewHealthHandler(checks).RegisterRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Auth, deps.Logger)
		authHandler.RegisterRoutes(authGroup, loginLimiter(deps), registerLimiter(deps))
	}

	return r
}

func loginLimiter(deps Dependencies) gin.HandlerFunc {
	return limiterFor(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts)
}

func registerLimiter(deps Dependencies) gin.HandlerFunc {
	return limiterFor(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts)
}

func limiterFor(deps Dependencies, name string, limit int) gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	return deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	})
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
