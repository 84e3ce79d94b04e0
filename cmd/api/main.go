// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/gymstack/internal/admin"
	"github.com/angelamos/gymstack/internal/attendance"
	"github.com/angelamos/gymstack/internal/auth"
	"github.com/angelamos/gymstack/internal/class"
	"github.com/angelamos/gymstack/internal/config"
	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/equipment"
	"github.com/angelamos/gymstack/internal/health"
	"github.com/angelamos/gymstack/internal/middleware"
	"github.com/angelamos/gymstack/internal/notification"
	"github.com/angelamos/gymstack/internal/plan"
	"github.com/angelamos/gymstack/internal/progress"
	"github.com/angelamos/gymstack/internal/server"
	"github.com/angelamos/gymstack/internal/ticket"
	"github.com/angelamos/gymstack/internal/user"
	migrations "github.com/angelamos/gymstack/migrations/postgres"
)

const drainDelay = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// backbone holds the shared infrastructure every feature package hangs off.
type backbone struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *core.Telemetry
	db        *core.Database
	redis     *core.Redis
	jwt       *auth.JWTManager
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	b, err := openBackbone(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := buildServer(b)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	return drainAndClose(b, srv)
}

// openBackbone brings up telemetry, postgres, redis, and the JWT key
// material, in dependency order. A telemetry failure only logs a warning;
// everything else is fatal.
func openBackbone(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*backbone, error) {
	b := &backbone{cfg: cfg, logger: logger}

	if cfg.Otel.Enabled {
		tel, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if err != nil {
			logger.Warn("failed to initialize telemetry", "error", err)
		} else {
			b.telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	b.db = db
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	applied, err := core.Migrate(ctx, db.DB, migrations.FS)
	if err != nil {
		return nil, err
	}
	if applied > 0 {
		logger.Info("schema migrations applied", "count", applied)
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	b.redis = redis
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return nil, err
	}
	b.jwt = jwtManager
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	return b, nil
}

// buildServer constructs every feature slice, wires the middleware chain,
// and mounts the versioned API.
func buildServer(b *backbone) *server.Server {
	userRepo := user.NewRepository(b.db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(b.db.DB)
	authSvc := auth.NewService(authRepo, b.jwt, userSvc, b.redis.Client)
	authHandler := auth.NewHandler(authSvc)

	attendanceRepo := attendance.NewRepository(b.db.DB)
	attendanceSvc := attendance.NewService(attendanceRepo)
	attendanceHandler := attendance.NewHandler(attendanceSvc)

	progressRepo := progress.NewRepository(b.db.DB)
	progressSvc := progress.NewService(progressRepo, userSvc)
	progressHandler := progress.NewHandler(progressSvc)

	notificationRepo := notification.NewRepository(b.db.DB)
	notificationSvc := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationSvc)

	classRepo := class.NewRepository(b.db.DB)
	classSvc := class.NewService(classRepo, notificationSvc)
	classHandler := class.NewHandler(classSvc)

	ticketRepo := ticket.NewRepository(b.db.DB)
	ticketSvc := ticket.NewService(ticketRepo)
	ticketHandler := ticket.NewHandler(ticketSvc)

	planRepo := plan.NewRepository(b.db.DB)
	planSvc := plan.NewService(planRepo)
	planHandler := plan.NewHandler(planSvc)

	equipmentRepo := equipment.NewRepository(b.db.DB)
	equipmentSvc := equipment.NewService(equipmentRepo)
	equipmentHandler := equipment.NewHandler(equipmentSvc)

	healthHandler := health.NewHandler(b.db, b.redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    b.db.Stats,
		RedisStats: b.redis.PoolStats,
		DBPing:     b.db.Ping,
		RedisPing:  b.redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  b.cfg.Server,
		HealthHandler: healthHandler,
		Logger:        b.logger,
	})

	router := srv.Router()
	mountGlobalMiddleware(router, b)

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", b.jwt.GetJWKSHandler())

	authn := middleware.Authenticator(b.jwt, authSvc)
	roleLimit := middleware.RoleRateLimiter(
		b.redis.Client,
		middleware.DefaultRoleLimits,
	)

	// Role limits apply only once the caller is identified, so the limiter
	// runs inside the authenticator on every authenticated route group.
	authenticator := func(next http.Handler) http.Handler {
		return authn(roleLimit(next))
	}
	staffOnly := middleware.RequireStaff
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterRoutes(r, authenticator)
		attendanceHandler.RegisterRoutes(r, authenticator)
		progressHandler.RegisterRoutes(r, authenticator)
		classHandler.RegisterRoutes(r, authenticator)
		notificationHandler.RegisterRoutes(r, authenticator)
		ticketHandler.RegisterRoutes(r, authenticator)
		planHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterStaffRoutes(r, authenticator, staffOnly, adminOnly)
		attendanceHandler.RegisterStaffRoutes(r, authenticator, staffOnly)
		progressHandler.RegisterStaffRoutes(r, authenticator, staffOnly)
		classHandler.RegisterStaffRoutes(r, authenticator, staffOnly)
		notificationHandler.RegisterStaffRoutes(r, authenticator, staffOnly)
		ticketHandler.RegisterStaffRoutes(r, authenticator, staffOnly)
		planHandler.RegisterStaffRoutes(r, authenticator, staffOnly)
		equipmentHandler.RegisterStaffRoutes(r, authenticator, staffOnly)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	return srv
}

func mountGlobalMiddleware(router chi.Router, b *backbone) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(b.logger))
	router.Use(
		middleware.NewRateLimiter(b.redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				b.cfg.RateLimit.Requests,
				b.cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(
		middleware.SecurityHeaders(b.cfg.App.Environment == "production"),
	)
	router.Use(middleware.CORS(b.cfg.CORS))
}

// drainAndClose stops accepting traffic, drains in-flight requests, then
// tears down telemetry and the connection pools. Close errors are logged
// rather than returned so every resource gets its chance to shut down.
func drainAndClose(b *backbone, srv *server.Server) error {
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		b.cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		b.logger.Error("server shutdown error", "error", err)
	}

	if b.telemetry != nil {
		if err := b.telemetry.Shutdown(shutdownCtx); err != nil {
			b.logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := b.redis.Close(); err != nil {
		b.logger.Error("redis close error", "error", err)
	}

	if err := b.db.Close(); err != nil {
		b.logger.Error("database close error", "error", err)
	}

	b.logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	opts := &slog.HandlerOptions{Level: levels[cfg.Level]}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
