// @title                       Commerce API
// @version                     1.0
// @description                 Back-office and storefront access control: accounts, roles, permissions and the audit trail.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shopdesk/commerce-api/internal/api"
	"github.com/shopdesk/commerce-api/internal/api/handler"
	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/service"
	mongodb "github.com/shopdesk/commerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/shopdesk/commerce-api/internal/infrastructure/db/redis"
	"github.com/shopdesk/commerce-api/internal/infrastructure/queue"
	"github.com/shopdesk/commerce-api/internal/pkg/config"
	"github.com/shopdesk/commerce-api/pkg/logger"
)

const serviceName = "commerce-api"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// --- Repositories ---
	roleRepo := mongodb.NewRoleRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	auditRepo := mongodb.NewAuditRepository(db, cfg.Audit.Retention)
	if err := mongodb.EnsureIndexes(ctx, roleRepo, userRepo, auditRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	if err := service.CheckRoleSeed(ctx, roleRepo); err != nil {
		log.Fatal().Err(err).Msg("role catalog is not seeded")
	}

	// --- Audit trail ---
	auditService := service.NewAuditService(auditRepo, logger.Component("audit"))
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, cfg.Audit.QueueSize, auditService, logger.Component("audit"))
	dispatcher.Start(dispatcherCtx)

	// --- Services ---
	registry := domain.DefaultRegistry()
	authService := service.NewAuthService(
		userRepo,
		roleRepo,
		service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL),
		redisdb.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow),
		dispatcher,
		logger.Component("auth"),
		service.AuthOptions{
			BcryptCost:      cfg.Auth.BcryptCost,
			DefaultRoleSlug: cfg.Auth.DefaultRoleSlug,
		},
	)

	e := api.NewRouter(api.Dependencies{
		Log:      log,
		Registry: registry,
		Sessions: authService,
		Auth:     authService,
		Roles:    service.NewRoleService(roleRepo, registry, dispatcher, logger.Component("roles")),
		Users:    service.NewUserService(userRepo, roleRepo, dispatcher, logger.Component("users"), cfg.Auth.BcryptCost),
		Audit:    auditService,
		Health: map[string]handler.Pinger{
			"mongodb": mongodb.Pinger{Client: mongoClient},
			"redis":   redisdb.Pinger{Client: rdb},
		},
		AllowOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("commerce api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	shutdown(log, srv, stopDispatcher, dispatcher, func(ctx context.Context) error {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
		return mongoClient.Disconnect(ctx)
	})
}

// shutdown stops accepting requests, lets the audit workers drain, then
// closes the stores they write to.
func shutdown(log zerolog.Logger, srv *http.Server, stopDispatcher context.CancelFunc, dispatcher *queue.Dispatcher, closeStores func(context.Context) error) {
	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	stopDispatcher()
	dispatcher.Wait()

	if err := closeStores(ctx); err != nil {
		log.Error().Err(err).Msg("failed to close stores")
	}
	log.Info().Msg("server exited")
}
