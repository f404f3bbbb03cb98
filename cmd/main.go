package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sauron136/custos/config"
	"github.com/sauron136/custos/db"
	"github.com/sauron136/custos/internal/auth/handler"
	repo "github.com/sauron136/custos/internal/auth/repository/postgres"
	"github.com/sauron136/custos/internal/auth/service"
	"github.com/sauron136/custos/internal/mailer"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := db.RunMigrations(cfg.DBURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	userRepo := repo.NewPostgresRepository(pool)
	sessionRepo := repo.NewPostgresSessionRepository(pool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.AccessTokenExpiry)
	issuer := service.NewTokenIssuer(userRepo, tokenService, cfg)
	mail := mailer.New(cfg, &logger)
	userService := service.NewUserService(userRepo, sessionRepo, userRepo, issuer, tokenService, mail, cfg, &logger)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
