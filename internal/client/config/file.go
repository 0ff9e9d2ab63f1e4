package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitrinex/vitrinex/internal/flagx"
	"github.com/vitrinex/vitrinex/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used for config file unmarshalling. Secrets are not
// read from files; they come from the environment.
type FileConfig struct {
	StoreDriver    string         `json:"store_driver" yaml:"store_driver"`
	SQLitePath     string         `json:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN    string         `json:"postgres_dsn" yaml:"postgres_dsn"`
	RedisAddr      string         `json:"redis_addr" yaml:"redis_addr"`
	RedisDB        *int           `json:"redis_db" yaml:"redis_db"`
	RedirectURL    string         `json:"redirect_url" yaml:"redirect_url"`
	CallbackAddr   *string        `json:"callback_addr" yaml:"callback_addr"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	HTTPTimeout    timex.Duration `json:"http_timeout" yaml:"http_timeout"`
	S3Bucket       string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`

	FacebookAuthURL   string `json:"facebook_auth_url" yaml:"facebook_auth_url"`
	PinterestAuthURL  string `json:"pinterest_auth_url" yaml:"pinterest_auth_url"`
	PinterestTokenURL string `json:"pinterest_token_url" yaml:"pinterest_token_url"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Files ending in .yaml or .yml are decoded as YAML, anything else
// as JSON. Empty values in the file leave the current setting untouched; an
// explicit empty callback_addr disables the listener. Panics on read or
// decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	setIfNotEmpty(&cfg.StoreDriver, fc.StoreDriver)
	setIfNotEmpty(&cfg.SQLitePath, fc.SQLitePath)
	setIfNotEmpty(&cfg.PostgresDSN, fc.PostgresDSN)
	setIfNotEmpty(&cfg.RedisAddr, fc.RedisAddr)
	if fc.RedisDB != nil {
		cfg.RedisDB = *fc.RedisDB
	}
	setIfNotEmpty(&cfg.RedirectURL, fc.RedirectURL)
	if fc.CallbackAddr != nil {
		cfg.CallbackAddr = *fc.CallbackAddr
	}
	setIfNotEmpty(&cfg.LogLevel, fc.LogLevel)
	if fc.HTTPTimeout.Duration > 0 {
		cfg.HTTPTimeout = fc.HTTPTimeout.Duration
	}
	setIfNotEmpty(&cfg.S3Bucket, fc.S3Bucket)
	setIfNotEmpty(&cfg.S3Region, fc.S3Region)
	setIfNotEmpty(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setIfNotEmpty(&cfg.FacebookAuthURL, fc.FacebookAuthURL)
	setIfNotEmpty(&cfg.PinterestAuthURL, fc.PinterestAuthURL)
	setIfNotEmpty(&cfg.PinterestTokenURL, fc.PinterestTokenURL)
}
