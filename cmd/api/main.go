// Package main is the entrypoint for the MapleHR API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/maplehr/maplehr/internal/cache"
	"github.com/maplehr/maplehr/internal/config"
	"github.com/maplehr/maplehr/internal/handler"
	"github.com/maplehr/maplehr/internal/middleware"
	"github.com/maplehr/maplehr/internal/server"
	"github.com/maplehr/maplehr/internal/service"
	"github.com/maplehr/maplehr/internal/store"
	"github.com/maplehr/maplehr/internal/store/memory"
	"github.com/maplehr/maplehr/internal/store/postgres"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Storage: Postgres when configured, in-memory otherwise.
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		st = pg
		logger.Info("connected to database")
	} else {
		st = memory.New()
		logger.Info("using in-memory store")
	}

	// Redis is optional; without it the login rate limiter is off and
	// sessions stay in the primary store.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	var sessions store.SessionStore = st
	if cfg.SessionStore == "redis" {
		if cacheClient == nil {
			logger.Error("SESSION_STORE=redis requires REDIS_URL")
			os.Exit(1)
		}
		sessions = cache.NewSessionStore(cacheClient)
		logger.Info("sessions stored in Redis")
	}

	if cfg.SeedDemoData {
		if err := service.SeedDemoData(ctx, st); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		logger.Info("demo data ready", "email", service.DemoEmail)
	}

	authService := service.NewAuthService(st, st, sessions)
	taskService := service.NewTaskService(st)

	h := handler.New(cfg.PingMessage)
	healthHandler := newHealthHandler(st, cacheClient)
	authHandler := handler.NewAuthHandler(authService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	payrollHandler := handler.NewPayrollHandler(logger)

	r := setupRouter(routerDeps{
		base:    h,
		health:  healthHandler,
		auth:    authHandler,
		tasks:   taskHandler,
		payroll: payrollHandler,
		authSvc: authService,
		cache:   cacheClient,
		cfg:     cfg,
		logger:  logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Registered first so the store closes after everything else.
	srv.OnShutdown("store", func(ctx context.Context) error {
		st.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newHealthHandler builds the health handler without handing it a typed
// nil when Redis is not configured.
func newHealthHandler(st store.Store, cacheClient *cache.Cache) *handler.HealthHandler {
	if cacheClient == nil {
		return handler.NewHealthHandler(st, nil)
	}
	return handler.NewHealthHandler(st, cacheClient)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	auth    *handler.AuthHandler
	tasks   *handler.TaskHandler
	payroll *handler.PayrollHandler
	authSvc *service.AuthService
	cache   *cache.Cache
	cfg     *config.Config
	logger  *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(deps.cfg.IsDevelopment()))
	r.Use(middleware.BodyLimit(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	authCfg := middleware.AuthConfig{
		Logger:   deps.logger,
		Verifier: deps.authSvc,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitLoginEnabled,
		RPS:     deps.cfg.RateLimitLoginRPS,
		Burst:   deps.cfg.RateLimitLoginBurst,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", deps.base.Ping)

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitLogin(rateLimitCfg)).Post("/login", deps.auth.Login)
			r.With(middleware.RateLimitLogin(rateLimitCfg)).Post("/register", deps.auth.Register)
			r.Get("/verify", deps.auth.Verify)
			r.Post("/logout", deps.auth.Logout)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Get("/", deps.tasks.List)
			r.Post("/", deps.tasks.Create)
			r.Put("/{id}", deps.tasks.Update)
			r.Delete("/{id}", deps.tasks.Delete)
		})

		r.Post("/payroll", deps.payroll.CalculateOvertime)
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return msg
}
