package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DBURL string `env:"DB_URL,required,notEmpty"`

	AccessTokenSecret   string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	AccessTokenExpiry   time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry  time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
	VerificationExpiry  time.Duration `env:"VERIFICATION_TOKEN_EXPIRY" envDefault:"24h"`
	ResetTokenExpiry    time.Duration `env:"RESET_TOKEN_EXPIRY" envDefault:"2h"`
	RotateRefreshTokens bool          `env:"ROTATE_REFRESH_TOKENS" envDefault:"true"`

	SiteName    string `env:"SITE_NAME" envDefault:"Custos"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"noreply@custos.local"`

	SessionIdleHorizon time.Duration `env:"SESSION_IDLE_HORIZON" envDefault:"720h"`
	AttemptRetention   time.Duration `env:"ATTEMPT_RETENTION" envDefault:"2160h"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
