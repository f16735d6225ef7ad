// Package config loads service configuration from an optional YAML file and
// the environment. Environment variables win over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env          string             `yaml:"env"`
	Port         string             `yaml:"port"`
	CORSOrigin   string             `yaml:"cors_origin"`
	SiteURL      string             `yaml:"site_url"`
	Database     DatabaseConfig     `yaml:"database"`
	JWT          JWTConfig          `yaml:"jwt"`
	ContentStore ContentStoreConfig `yaml:"content_store"`
	Discord      DiscordConfig      `yaml:"discord"`
	Redis        RedisConfig        `yaml:"redis"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ContentStoreConfig struct {
	Backend       string `yaml:"backend"`
	Bucket        string `yaml:"bucket"`
	PublicBaseURL string `yaml:"public_base_url"`
	// GCS
	CredentialsFile string `yaml:"credentials_file"`
	// S3-compatible
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type DiscordConfig struct {
	ModeratorWebhookURL string `yaml:"moderator_webhook_url"`
	StatusWebhookURL    string `yaml:"status_webhook_url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Load reads CONFIG_FILE (if set) and then applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse unmarshals YAML without applying environment overrides or defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Env, "APP_ENV")
	setString(&c.Port, "PORT")
	setString(&c.CORSOrigin, "CORS_ORIGIN")
	setString(&c.SiteURL, "SITE_URL")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")

	setString(&c.JWT.Secret, "JWT_SECRET")
	setDuration(&c.JWT.Expiration, "JWT_EXPIRATION")

	setString(&c.ContentStore.Backend, "CONTENT_STORE")
	setString(&c.ContentStore.Bucket, "CONTENT_BUCKET")
	setString(&c.ContentStore.PublicBaseURL, "CONTENT_PUBLIC_BASE_URL")
	setString(&c.ContentStore.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.ContentStore.Endpoint, "S3_ENDPOINT")
	setString(&c.ContentStore.AccessKey, "S3_ACCESS_KEY")
	setString(&c.ContentStore.SecretKey, "S3_SECRET_KEY")
	setString(&c.ContentStore.Region, "S3_REGION")
	setBool(&c.ContentStore.UseSSL, "S3_USE_SSL")

	setString(&c.Discord.ModeratorWebhookURL, "DISCORD_MODERATOR_WEBHOOK_URL")
	setString(&c.Discord.StatusWebhookURL, "DISCORD_STATUS_WEBHOOK_URL")

	setString(&c.Redis.URL, "REDIS_URL")
	setDuration(&c.Redis.CacheTTL, "CACHE_TTL")
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.CORSOrigin == "" {
		c.CORSOrigin = "*"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "roadmaps.db"
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = defaultJWTSecret
	}
	if c.JWT.Expiration == 0 {
		c.JWT.Expiration = 24 * time.Hour
	}
	if c.ContentStore.Backend == "" {
		c.ContentStore.Backend = "memory"
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 10 * time.Minute
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("config: DATABASE_URL is required for driver %q", c.Database.Driver)
	}
	switch c.ContentStore.Backend {
	case "memory":
	case "gcs":
		if c.ContentStore.Bucket == "" {
			return fmt.Errorf("config: CONTENT_BUCKET is required for the gcs content store")
		}
	case "s3":
		if c.ContentStore.Bucket == "" || c.ContentStore.Endpoint == "" {
			return fmt.Errorf("config: CONTENT_BUCKET and S3_ENDPOINT are required for the s3 content store")
		}
	default:
		return fmt.Errorf("config: unknown content store backend %q", c.ContentStore.Backend)
	}
	return c.JWT.validate(c.Env)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if parsed, err := strconv.ParseBool(v); err == nil {
		*dst = parsed
	}
}

func setDuration(dst *time.Duration, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if parsed, err := time.ParseDuration(v); err == nil {
		*dst = parsed
	}
}
