package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/CodyErekson/kitchenKiosk/internal/infra/config"
	"github.com/CodyErekson/kitchenKiosk/internal/infra/database"
	"github.com/CodyErekson/kitchenKiosk/internal/infra/logger"
	redisinfra "github.com/CodyErekson/kitchenKiosk/internal/infra/redis"
	"github.com/CodyErekson/kitchenKiosk/internal/infra/security"
	postgresrepo "github.com/CodyErekson/kitchenKiosk/internal/repository/postgres"
	redisrepo "github.com/CodyErekson/kitchenKiosk/internal/repository/redis"
	"github.com/CodyErekson/kitchenKiosk/internal/transport/http/middleware"
	"github.com/CodyErekson/kitchenKiosk/internal/transport/http/routes"
	"github.com/CodyErekson/kitchenKiosk/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	hashCfg := security.PBKDF2Config{
		Algorithm:  cfg.PBKDF2.Algorithm,
		Iterations: cfg.PBKDF2.Iterations,
		SaltLength: cfg.PBKDF2.SaltLength,
		KeyLength:  cfg.PBKDF2.KeyLength,
	}
	if err := security.ConfigurePBKDF2(hashCfg); err != nil {
		return nil, fmt.Errorf("configure pbkdf2: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	attemptStore := redisrepo.NewLoginAttemptStore(redisClient.Client(), redisrepo.LoginAttemptConfig{
		TTL: rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(attemptStore, log)

	passwordValidator := security.NewPasswordValidator(
		security.MinLengthRule(cfg.Auth.MinPasswordLength),
		security.RequireLetterRule(),
		security.RequireDigitRule(),
		security.RequirePasswordStrengthRule(cfg.Auth.MinPasswordStrength),
	)

	sessionService := usecase.NewSessionService(repos.Sessions)
	rememberService := usecase.NewRememberService(repos.RememberCookies)
	authService := usecase.NewAuthService(repos.Credentials, sessionService, rememberService, passwordValidator, cfg.Auth.SessionTTL)

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     httpMetrics,
		Auth:        authService,
		Database:    pool,
		Cache:       redisClient,
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting kiosk auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
