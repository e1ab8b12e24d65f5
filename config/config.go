package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret string `env:"JWT_SECRET,required"`

	// FCM credentials: base64 JSON via env wins over the local key file.
	FCMServiceAccountJSON string `env:"FCM_SERVICE_ACCOUNT_JSON"`
	FCMCredentialsFile    string `env:"FCM_CREDENTIALS_FILE" envDefault:"./serviceAccountKey.json"`

	// DayBoundaryTZ is the single reference timezone for every
	// "calendar day" computation: commit uniqueness, diary windows,
	// start/end date arithmetic.
	DayBoundaryTZ string `env:"DAY_BOUNDARY_TZ" envDefault:"UTC"`

	MetricsUser string `env:"METRICS_USER" envDefault:""`
	MetricsPass string `env:"METRICS_PASS" envDefault:""`

	// StingsPerDay caps partner nudges per user.
	StingsPerDay int `env:"STINGS_PER_DAY" envDefault:"5"`

	dayLocation *time.Location
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.DayBoundaryTZ)
	if err != nil {
		return nil, fmt.Errorf("invalid DAY_BOUNDARY_TZ %q: %w", cfg.DayBoundaryTZ, err)
	}
	cfg.dayLocation = loc

	return cfg, nil
}

// DayLocation returns the reference location for day-boundary math.
func (c *Config) DayLocation() *time.Location {
	if c.dayLocation == nil {
		return time.UTC
	}
	return c.dayLocation
}
