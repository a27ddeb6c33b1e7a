// @title Kanban CRM Backend API
// @version 1.0
// @description Multi-tenant CRM backend: per-user records behind bearer token authentication
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	_ "KANBAN_CRM_BACK-END/docs" // This is required for swagger
	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/config"
	"KANBAN_CRM_BACK-END/internal/handlers"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/ratelimit"
	"KANBAN_CRM_BACK-END/internal/repository"
	"KANBAN_CRM_BACK-END/internal/repository/gormstore"
	"KANBAN_CRM_BACK-END/internal/repository/postgres"
	"KANBAN_CRM_BACK-END/internal/routes"
	"KANBAN_CRM_BACK-END/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	authSvc, err := services.NewAuthService(store, auth.NewPasswordHasher(cfg.JWT.BcryptCost), tokens, logger)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	opts := routes.Options{Tokens: tokens, Logger: logger}
	if cfg.IsRateLimitEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "redis unreachable, rate limiter will fail open", "addr", cfg.Redis.Addr, "error", err)
		}
		opts.Limiter = ratelimit.NewLimiter(rdb, "kanban_crm:ratelimit:", cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow)
	}

	router := routes.SetupRoutes(routes.Handlers{
		Auth:    handlers.NewAuthHandler(authSvc),
		Records: handlers.NewRecordHandler(services.NewRecordService(store, logger)),
		Books:   handlers.NewBookHandler(services.NewBookService(store, logger)),
		Health:  handlers.NewHealthHandler(store),
	}, opts)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "HTTP server listening", "addr", srv.Addr, "db_driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}

// openStore connects to the configured backend and brings its schema up to date
func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := gormstore.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info(ctx, "connected to sqlite", "path", cfg.Database.SQLitePath)
		return store, nil
	default:
		if err := postgres.RunMigrations(ctx, cfg.GetDSN()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		store, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		logger.Info(ctx, "connected to postgres", "host", cfg.Database.Host)
		return store, nil
	}
}
