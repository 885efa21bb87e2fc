package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database: a postgres:// URL or a SQLite file path
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis is optional; empty disables the L2 cache, the distributed import lock and the job queue
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	AdminEmails        string `mapstructure:"ADMIN_EMAILS"` // comma separated

	// Import
	ExcelPath           string        `mapstructure:"EXCEL_PATH"`
	ImportOnStart       bool          `mapstructure:"IMPORT_ON_START"`
	ImportWatchInterval time.Duration `mapstructure:"IMPORT_WATCH_INTERVAL"` // 0 disables the watcher
	ImportLockTTL       time.Duration `mapstructure:"IMPORT_LOCK_TTL"`
	SystemEmail         string        `mapstructure:"SYSTEM_EMAIL"`
	TimeZone            string        `mapstructure:"TIMEZONE"`

	// Alerts
	AlertThresholdDays int           `mapstructure:"ALERT_THRESHOLD_DAYS"`
	CacheTTL           time.Duration `mapstructure:"CACHE_TTL"`

	// SMTP digest (disabled when DIGEST_TO is empty)
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	DigestTo     string `mapstructure:"DIGEST_TO"`
	DigestHour   int    `mapstructure:"DIGEST_HOUR"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 3000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_URL", "productos.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "un-secreto-simple")
	v.SetDefault("JWT_EXPIRATION_HOURS", 30*24)
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("EXCEL_PATH", "productos.xlsx")
	v.SetDefault("IMPORT_ON_START", true)
	v.SetDefault("IMPORT_WATCH_INTERVAL", "0s")
	v.SetDefault("IMPORT_LOCK_TTL", "10m")
	v.SetDefault("SYSTEM_EMAIL", "sistema@auto.local")
	v.SetDefault("TIMEZONE", "America/Santiago")
	v.SetDefault("ALERT_THRESHOLD_DAYS", 15)
	v.SetDefault("CACHE_TTL", "4h")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("DIGEST_TO", "")
	v.SetDefault("DIGEST_HOUR", 8)

	// Optional .env file for local development; a missing file is not an error
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Admins returns the normalised admin e-mail list.
func (c *Config) Admins() []string {
	var out []string
	for _, e := range strings.Split(c.AdminEmails, ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Location resolves TimeZone, falling back to the local zone when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
