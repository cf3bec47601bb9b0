package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ondertalhatorpil/uye-onder-api/internal/config"
	"github.com/ondertalhatorpil/uye-onder-api/internal/database"
	"github.com/ondertalhatorpil/uye-onder-api/internal/handler"
	"github.com/ondertalhatorpil/uye-onder-api/internal/middleware"
	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
	"github.com/ondertalhatorpil/uye-onder-api/internal/repository"
	"github.com/ondertalhatorpil/uye-onder-api/internal/router"
	"github.com/ondertalhatorpil/uye-onder-api/internal/service"
	cloud "github.com/ondertalhatorpil/uye-onder-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Member{},
		&models.Activity{},
		&models.ActivityLike{},
		&models.ActivityComment{},
		&models.ModerationLog{},
		&models.MediaAsset{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis backs the engagement summary cache; the service degrades to
	// store-only counting when no URL is configured.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, engagement summary cache disabled")
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	activityRepo := repository.NewActivityRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	auditRepo := repository.NewModerationLogRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	activityService := service.NewActivityService(activityRepo, memberRepo, validate, cfg.StoreTimeout, logger)
	moderationService := service.NewModerationService(activityRepo, auditRepo, cfg.StoreTimeout, logger)
	engagementService := service.NewEngagementService(engagementRepo, activityRepo, memberRepo, redisClient, cfg.SummaryCacheTTL, validate, cfg.StoreTimeout, logger)
	uploadService := service.NewUploadService(uploader, mediaRepo, cfg.UploadMaxSizeMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		ModerationHandler: handler.NewAdminModerationHandler(moderationService, logger),
		EngagementHandler: handler.NewEngagementHandler(engagementService, logger),
		UploadHandler:     handler.NewUploadHandler(uploadService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
