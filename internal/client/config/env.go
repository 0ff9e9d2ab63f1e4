package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envSecrets holds values that only come from the environment.
type envSecrets struct {
	FacebookAppID         string `env:"VITRINEX_FACEBOOK_APP_ID"`
	InstagramAppID        string `env:"VITRINEX_INSTAGRAM_APP_ID"`
	PinterestClientID     string `env:"VITRINEX_PINTEREST_CLIENT_ID"`
	PinterestClientSecret string `env:"VITRINEX_PINTEREST_CLIENT_SECRET"`
	RedisPassword         string `env:"VITRINEX_REDIS_PASSWORD"`
	PostgresDSN           string `env:"VITRINEX_POSTGRES_DSN"`
	S3AccessKey           string `env:"VITRINEX_S3_ACCESS_KEY"`
	S3SecretKey           string `env:"VITRINEX_S3_SECRET_KEY"`
	S3BaseEndpoint        string `env:"VITRINEX_S3_ENDPOINT"`
	S3Bucket              string `env:"VITRINEX_S3_BUCKET"`
}

// parseEnv overlays Config with non-empty environment secrets.
func parseEnv(cfg *Config) error {
	var e envSecrets
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setIfNotEmpty(&cfg.FacebookAppID, e.FacebookAppID)
	setIfNotEmpty(&cfg.InstagramAppID, e.InstagramAppID)
	setIfNotEmpty(&cfg.PinterestClientID, e.PinterestClientID)
	setIfNotEmpty(&cfg.PinterestClientSecret, e.PinterestClientSecret)
	setIfNotEmpty(&cfg.RedisPassword, e.RedisPassword)
	setIfNotEmpty(&cfg.PostgresDSN, e.PostgresDSN)
	setIfNotEmpty(&cfg.S3AccessKey, e.S3AccessKey)
	setIfNotEmpty(&cfg.S3SecretKey, e.S3SecretKey)
	setIfNotEmpty(&cfg.S3BaseEndpoint, e.S3BaseEndpoint)
	setIfNotEmpty(&cfg.S3Bucket, e.S3Bucket)
	return nil
}
