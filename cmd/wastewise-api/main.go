// Command wastewise-api serves the WasteWise HTTP API.
//
//	wastewise-api             run the server
//	wastewise-api seed-admin  create the default admin account
//
// @title                       WasteWise API
// @version                     1.0.0
// @description                 Smart waste management: citizen reports with photo and location, admin status workflow.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/wastewise/wastewise/docs"
	"github.com/wastewise/wastewise/internal/api"
	"github.com/wastewise/wastewise/internal/core/service"
	"github.com/wastewise/wastewise/internal/infrastructure/config"
	"github.com/wastewise/wastewise/internal/infrastructure/db/mongo"
	"github.com/wastewise/wastewise/internal/infrastructure/db/redis"
	httpserver "github.com/wastewise/wastewise/internal/infrastructure/http"
	"github.com/wastewise/wastewise/internal/infrastructure/http/handlers"
	"github.com/wastewise/wastewise/internal/infrastructure/queue"
	"github.com/wastewise/wastewise/internal/infrastructure/storage"
	"github.com/wastewise/wastewise/pkg/logger"
)

const (
	seedAdminName  = "Admin"
	seedAdminEmail = "admin@wastewise.com"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "wastewise-api:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "wastewise-api",
	})
	if cfg.UsesDefaultSecret() {
		log.Warn().Msg("JWT_SECRET is not set, using the development default")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	users := mongo.NewUserRepository(db)
	reports := mongo.NewReportRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, reports); err != nil {
		return err
	}

	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)

	if len(args) > 0 {
		switch args[0] {
		case "seed-admin":
			return seedAdmin(ctx, authService, log)
		default:
			return fmt.Errorf("unknown command %q", args[0])
		}
	}

	var rdb *goredis.Client
	if cfg.RateLimitEnabled {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
	}

	images, err := storage.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	dispatcher := queue.NewDispatcher(cfg.EventWorkers,
		service.NewReportEventService(mongo.NewReportEventRepository(db), logger.Component("report-events")),
		logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	deps := api.Dependencies{
		Log:            log,
		Env:            cfg.Env,
		EnableDocs:     !cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins,
		UploadDir:      images.Dir(),
		Auth:           authService,
		Profiles:       service.NewProfileService(users, authService, logger.Component("profile")),
		Reports:        service.NewReportService(reports, images, dispatcher, logger.Component("reports")),
		DB:             handlers.MongoPinger(db),
	}
	if rdb != nil {
		defer rdb.Close()
		deps.Limiter = redis.NewRateLimiter(rdb, 0)
		deps.Cache = handlers.RedisPinger(rdb)
	} else {
		log.Warn().Msg("rate limiting disabled")
	}

	srv := httpserver.NewServer(":"+cfg.Port, api.NewRouter(deps), log)
	runErr := srv.Run(ctx)

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
	return runErr
}

func seedAdmin(ctx context.Context, auth *service.AuthService, log zerolog.Logger) error {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		return errors.New("SEED_ADMIN_PASSWORD must be set")
	}

	created, err := auth.EnsureAdmin(ctx, seedAdminName, seedAdminEmail, password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.Info().Str("email", seedAdminEmail).Msg("admin user created")
	} else {
		log.Info().Str("email", seedAdminEmail).Msg("admin user already exists")
	}
	return nil
}
