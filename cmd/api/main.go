package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/config"
	"github.com/campus-portal/campus-api/internal/database"
	"github.com/campus-portal/campus-api/internal/handler"
	"github.com/campus-portal/campus-api/internal/middleware"
	"github.com/campus-portal/campus-api/internal/repository"
	"github.com/campus-portal/campus-api/internal/router"
	"github.com/campus-portal/campus-api/internal/service"
	"github.com/campus-portal/campus-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DatabaseMaxConns,
		Debug:        cfg.LogLevel == "debug",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, trending cache disabled")
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, notifications are logged only")
		} else {
			defer natsConn.Drain()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	tx := repository.NewTransactor(db)

	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	clubRepo := repository.NewClubRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	flagRepo := repository.NewFlagRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	var notifier service.Notifier = service.NewLogNotifier(logger)
	if natsConn != nil {
		notifier = service.NewNATSNotifier(natsConn, cfg.NATSSubject, notifier, logger)
	}
	var trendingCache *service.TrendingCache
	if redisClient != nil {
		trendingCache = service.NewTrendingCache(redisClient, cfg.TrendingCacheTTL, logger)
	}

	accountService := service.NewAccountService(accountRepo, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	eventService := service.NewEventService(eventRepo, registrationRepo, clubRepo, membershipRepo, tx, trendingCache, validate, logger)
	registrationService := service.NewRegistrationService(eventRepo, registrationRepo, tx, trendingCache, notifier, validate, logger)
	clubService := service.NewClubService(clubRepo, membershipRepo, announcementRepo, eventRepo, eventService, validate, logger)
	membershipService := service.NewMembershipService(clubRepo, membershipRepo, tx, notifier, logger)
	reviewService := service.NewAdminReviewService(clubRepo, membershipRepo, accountRepo, tx, activityService, notifier, logger)
	moderationService := service.NewModerationService(flagRepo, tx, activityService, validate, logger)
	seedService := service.NewSeedService(clubRepo, membershipRepo, announcementRepo, eventRepo, accountRepo, tx, cfg.SeedDemo, logger)

	if cfg.SeedDemo {
		if _, err := seedService.SeedDemo(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: errorHandler(logger),
	})

	middleware.Register(app, middleware.Config{
		Logger:      &logger,
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		EventHandler:        handler.NewEventHandler(eventService, logger),
		RegistrationHandler: handler.NewRegistrationHandler(registrationService, logger),
		ClubHandler:         handler.NewClubHandler(clubService, membershipService, logger),
		FlagHandler:         handler.NewFlagHandler(moderationService, logger),
		AdminHandler:        handler.NewAdminHandler(moderationService, reviewService, activityService, seedService, logger),
		Principals:          accountService,
		HealthProbes:        healthProbes(db, redisClient, natsConn),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("http server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func healthProbes(db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) []handler.HealthProbe {
	probes := []handler.HealthProbe{{
		Name:     "database",
		Required: true,
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if redisClient != nil {
		probes = append(probes, handler.HealthProbe{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	if natsConn != nil {
		probes = append(probes, handler.HealthProbe{
			Name: "nats",
			Check: func(context.Context) error {
				if !natsConn.IsConnected() {
					return fmt.Errorf("nats %s", natsConn.Status())
				}
				return nil
			},
		})
	}
	return probes
}

func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		}
		logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return utils.FailError(c, err)
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
