package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	Version         string        `envconfig:"VERSION" default:"dev"`
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"12"`
	S3Endpoint      string        `envconfig:"S3_ENDPOINT" default:""`
	S3Region        string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket        string        `envconfig:"S3_BUCKET" default:"mosaic-files"`
	S3AccessKey     string        `envconfig:"S3_ACCESS_KEY" default:""`
	S3SecretKey     string        `envconfig:"S3_SECRET_KEY" default:""`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
