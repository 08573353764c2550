package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	apiHttp "github.com/gigs-work/backend/internal/api/http"
	"github.com/gigs-work/backend/internal/cache"
	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/internal/db"
	"github.com/gigs-work/backend/internal/identity"
	"github.com/gigs-work/backend/internal/moderation"
	"github.com/gigs-work/backend/internal/queue/asynqserver"
	queueClient "github.com/gigs-work/backend/internal/queue/client"
	"github.com/gigs-work/backend/internal/repository"
	"github.com/gigs-work/backend/internal/server"
	"github.com/gigs-work/backend/internal/service"
	"github.com/gigs-work/backend/internal/supabase"
	"github.com/gigs-work/backend/internal/verification"
	"github.com/gigs-work/backend/internal/worker"
	"github.com/gigs-work/backend/pkg/auth"
	"github.com/gigs-work/backend/pkg/email/smtp"
	"github.com/gigs-work/backend/pkg/hash"
	"github.com/gigs-work/backend/pkg/logger"
	"github.com/gigs-work/backend/pkg/otp"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env)

	appLogger.Infow("starting gigs backend api", "env", cfg.Env)
	appLogger.Debug("debug messages are enabled")

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Errorw("mysql connect problem", "error", err)
		os.Exit(1)
	}
	defer func() {
		err = dbMySQL.Close()
		if err != nil {
			appLogger.Errorw("error when closing", "error", err)
		}
	}()
	appLogger.Info("mysql connection done")

	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Errorw("redis connect problem", "error", err)
		os.Exit(1)
	}
	appLogger.Info("redis connection done")

	backend := supabase.New(cfg.Supabase)

	hasher := hash.NewSHA256Hasher(cfg.Auth.CodeSalt)
	otpGenerator := otp.NewGOTPGenerator()

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Errorw("smtp sender creation failed", "error", err)
		return
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Errorw("auth manager creation err", "error", err)
		return
	}

	// Identity provider: remote hosted platform либо локальный для dev
	var provider verification.Provider
	if cfg.Identity.Provider == "local" {
		provider = identity.NewLocal(redisClient, otpGenerator, hasher, cfg.Identity, cfg.Auth)
	} else {
		provider = identity.NewClient(cfg.Identity)
	}

	flow := verification.NewFlow(provider)
	sessions := verification.NewSessionStore(redisClient, cfg.Auth.VerificationTTL)

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL, backend, cfg.Supabase.JobsTable)
	services := service.NewServices(service.Deps{
		Config:       cfg,
		TokenManager: tokenManager,
		Repos:        repos,
		Flow:         flow,
		Sessions:     sessions,
		Backend:      backend,
	})
	handlers := apiHttp.NewHandlers(services, tokenManager, cfg)

	// Background queue
	restoreClient := queueClient.SetClient(asynq.NewClient(asynqserver.RedisOptions(cfg.Cache)))
	defer restoreClient()

	workers := worker.NewWorkers(worker.Deps{
		Config:           cfg,
		EmailProvider:    emailSender,
		ModerationClient: moderation.NewClient(cfg.Moderation),
		Jobs:             repos.Jobs,
	})

	queueServer, queueMux := asynqserver.New(cfg.Cache, workers)
	go func() {
		if err := queueServer.Run(queueMux); err != nil {
			appLogger.Errorw("error occurred while running queue server", "error", err)
		}
	}()

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorw("error occurred while running http server", "error", err)
		}
	}()
	appLogger.Info("server started")

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	queueServer.Shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Errorw("failed to stop server", "error", err)
	}

	appLogger.Info("app stopped")
}
