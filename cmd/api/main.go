package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/router"
	"github.com/forkful/forkful-backend/internal/server"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/session"
	"github.com/forkful/forkful-backend/internal/storage"
	"github.com/forkful/forkful-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	// Health-check connection, separate from the ORM.
	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	gormDB, err := database.NewGormDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open gorm connection")
	}
	docs, err := store.NewGorm(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize document store")
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize S3")
	}
	blobs := storage.NewS3(s3cfg.Client, s3cfg.BucketName)

	sessions := session.FromContext{}
	authService := service.NewAuthService(docs, service.NewRedisTokenRegistry(redisClient), cfg.JWTSecret, logger)
	recipeService := service.NewRecipeService(docs, sessions, logger)
	imageService := service.NewImageService(blobs, logger)
	profileService := service.NewProfileService(docs, sessions, logger)

	engine := router.SetupRouter(router.Handlers{
		Auth:        api.NewAuthHandler(authService),
		Recipes:     api.NewRecipeHandler(recipeService, imageService),
		Profile:     api.NewProfileHandler(profileService),
		Images:      api.NewImageHandler(imageService),
		Validator:   authService,
		RateLimiter: middleware.NewRecipeCreationRateLimiter(redisClient),
		Health: func(c *gin.Context) {
			if err := db.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		},
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := server.New(engine, cfg.Addr(), logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("received signal")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}

func newLogger() zerolog.Logger {
	var logger zerolog.Logger
	if config.IsProduction() {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.With().Timestamp().Logger()
}
