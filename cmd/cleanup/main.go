// Command cleanup runs the out-of-band retention pass: expired token
// rows are deleted, idle sessions deactivated, and old login attempts
// pruned. Intended to run periodically (cron or similar) alongside live
// traffic; every predicate is evaluated at read time so no locking is
// needed.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sauron136/custos/config"
	"github.com/sauron136/custos/db"
	repo "github.com/sauron136/custos/internal/auth/repository/postgres"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	tokenRepo := repo.NewPostgresRepository(pool)
	sessionRepo := repo.NewPostgresSessionRepository(pool)

	now := time.Now()

	tokens, err := tokenRepo.DeleteExpiredTokens(ctx, now)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to delete expired tokens")
	}

	sessions, err := sessionRepo.DeactivateIdle(ctx, now.Add(-cfg.SessionIdleHorizon))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to deactivate idle sessions")
	}

	attempts, err := tokenRepo.DeleteOlderThan(ctx, now.Add(-cfg.AttemptRetention))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prune login attempts")
	}

	logger.Info().
		Int64("expired_tokens", tokens).
		Int64("idle_sessions", sessions).
		Int64("pruned_attempts", attempts).
		Msg("cleanup completed")
}
