package config

import "time"

// Store drivers accepted by Config.StoreDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds runtime settings for the VitrineX CLI.
type Config struct {
	StoreDriver   string
	SQLitePath    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RedirectURL is the registered OAuth redirect URI. Provider callbacks
	// land here carrying the auth_return marker.
	RedirectURL  string
	CallbackAddr string

	LogLevel    string
	HTTPTimeout time.Duration

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	FacebookAppID         string
	InstagramAppID        string
	PinterestClientID     string
	PinterestClientSecret string

	FacebookAuthURL   string
	PinterestAuthURL  string
	PinterestTokenURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreDriver = DriverSQLite
	c.SQLitePath = "vitrinex.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedirectURL = "http://127.0.0.1:8787/oauth/callback"
	c.CallbackAddr = "127.0.0.1:8787"
	c.LogLevel = "info"
	c.HTTPTimeout = 15 * time.Second
	c.S3Region = "us-east-1"
	c.S3Bucket = "vitrinex"
	c.FacebookAuthURL = "https://www.facebook.com/v19.0/dialog/oauth"
	c.PinterestAuthURL = "https://www.pinterest.com/oauth/"
	c.PinterestTokenURL = "https://api.pinterest.com/v5/oauth/token"
}

// BackupConfigured reports whether enough S3 settings are present to run
// backups.
func (c *Config) BackupConfigured() bool {
	return c.S3Bucket != "" && c.S3BaseEndpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays the config
// file, command-line flags and environment secrets. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	if err := parseEnv(cfg); err != nil {
		panic(err)
	}
	return cfg
}
