// Package server defines the Server container that composes the app's main
// dependencies and owns their lifecycle.
//
// It owns:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - redis client and the JSON cache on top of it
//   - upload storage
//   - background job worker server (asynq) and periodic jobs (cron)
//   - dependency health checks
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/robotics-club/internal/config"
	"github.com/deppfellow/robotics-club/internal/database"
	"github.com/deppfellow/robotics-club/internal/lib/auth"
	"github.com/deppfellow/robotics-club/internal/lib/cache"
	"github.com/deppfellow/robotics-club/internal/lib/email"
	"github.com/deppfellow/robotics-club/internal/lib/health"
	"github.com/deppfellow/robotics-club/internal/lib/job"
	"github.com/deppfellow/robotics-club/internal/lib/scheduler"
	"github.com/deppfellow/robotics-club/internal/lib/upload"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/robotics-club/internal/logger"
)

const redisPingTimeout = 5 * time.Second

// Server is the application container. It is not the HTTP server itself;
// that lives in httpServer and is configured by SetupHTTPServer.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	DB    *database.Database
	Redis *redis.Client
	Cache *cache.Cache

	Tokens  *auth.TokenManager
	Uploads *upload.Manager
	Email   *email.Client
	Health  *health.Checker

	// Job runs background workers (Asynq server) and provides a client for enqueueing.
	Job       *job.JobService
	Scheduler *scheduler.Scheduler

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// Redis failing to answer a ping does not block startup: the cache fails
// open and the rate limiter lets requests through. A database or upload
// directory failure does.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	uploads, err := upload.NewManager(&cfg.Upload, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize uploads: %w", err)
	}

	emailClient := email.NewClient(cfg, logger)

	jobService := job.NewJobService(logger, cfg, emailClient, uploads)
	if err := jobService.Start(); err != nil {
		db.Close()
		return nil, err
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Cache:         cache.New(redisClient, logger),
		Tokens:        auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL, config.ServiceName),
		Uploads:       uploads,
		Email:         emailClient,
		Job:           jobService,
	}

	server.Health = server.newHealthChecker()
	server.Scheduler, err = server.newScheduler()
	if err != nil {
		server.closeDependencies()
		return nil, err
	}

	return server, nil
}

func (s *Server) newHealthChecker() *health.Checker {
	obs := s.Config.Observability
	checker := health.NewChecker(s.Config.Primary.Env, obs.HealthChecks.Timeout, s.Logger, s.LoggerService)

	if obs.HasCheck("database") {
		checker.Register("database", func(ctx context.Context) error {
			return s.DB.Pool.Ping(ctx)
		})
	}
	if obs.HasCheck("redis") {
		checker.Register("redis", func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		})
	}

	return checker
}

func (s *Server) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(s.Logger)

	sweepEvery := s.Config.Upload.TempMaxAge / 2
	if sweepEvery < time.Minute {
		sweepEvery = time.Minute
	}
	if err := sched.Every(sweepEvery, "temp_upload_sweep",
		scheduler.NewTempSweepJob(s.Uploads, s.Config.Upload.TempMaxAge, s.Logger)); err != nil {
		return nil, err
	}

	if hc := s.Config.Observability.HealthChecks; hc.Enabled {
		if err := sched.Every(hc.Interval, "health_probe", scheduler.NewHealthProbeJob(s.Health, s.Logger)); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

// SetupHTTPServer configures the internal net/http server. Timeouts are
// configured in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start starts the periodic jobs and blocks serving HTTP.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	if s.Scheduler != nil {
		s.Scheduler.Start()
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for inflight ones until ctx is
// done, then releases the remaining dependencies.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Scheduler != nil {
		s.Scheduler.Stop(ctx)
	}

	return s.closeDependencies()
}

func (s *Server) closeDependencies() error {
	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
