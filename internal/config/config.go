package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Directory sources.
const (
	SourceStatic    = "static"
	SourcePostgREST = "postgrest"
	SourcePostgres  = "postgres"
	SourceSQLite    = "sqlite"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	DirectorySource    string        `mapstructure:"DIRECTORY_SOURCE"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	SQLitePath         string        `mapstructure:"SQLITE_PATH"`
	PostgRESTURL       string        `mapstructure:"POSTGREST_URL"`
	PostgRESTKey       string        `mapstructure:"POSTGREST_KEY"`
	FetchTimeout       time.Duration `mapstructure:"FETCH_TIMEOUT"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS       float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
	WhatsAppNumber     string        `mapstructure:"WHATSAPP_NUMBER"`
	AssetsDir          string        `mapstructure:"ASSETS_DIR"`
	ImageCacheDir      string        `mapstructure:"IMAGE_CACHE_DIR"`
	PlaceholderBaseURL string        `mapstructure:"PLACEHOLDER_BASE_URL"`
	AdminJWTSecret     string        `mapstructure:"ADMIN_JWT_SECRET"`
	AdminJWTIssuer     string        `mapstructure:"ADMIN_JWT_ISSUER"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "DIRECTORY_SOURCE",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "SQLITE_PATH",
	"POSTGREST_URL", "POSTGREST_KEY", "FETCH_TIMEOUT",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"WHATSAPP_NUMBER", "ASSETS_DIR", "IMAGE_CACHE_DIR", "PLACEHOLDER_BASE_URL",
	"ADMIN_JWT_SECRET", "ADMIN_JWT_ISSUER",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DIRECTORY_SOURCE", SourceStatic)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("SQLITE_PATH", "./directory.db")
	v.SetDefault("FETCH_TIMEOUT", "5s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:8000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("WHATSAPP_NUMBER", "917593955550")
	v.SetDefault("ASSETS_DIR", "./assets")
	v.SetDefault("IMAGE_CACHE_DIR", "./cache/images")
	v.SetDefault("PLACEHOLDER_BASE_URL", "https://ui-avatars.com/api/")
	v.SetDefault("ADMIN_JWT_ISSUER", "hospital-server")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	for i := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
	}
	cfg.DirectorySource = strings.ToLower(strings.TrimSpace(cfg.DirectorySource))

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDatabase reports whether the directory lives in Postgres, which also
// enables the admin API and migrations.
func (c *Config) UsesDatabase() bool {
	return c.DirectorySource == SourcePostgres
}

// Validate checks that the selected directory source has what it needs and that
// production runs have an admin signing secret.
func (c *Config) Validate() error {
	switch c.DirectorySource {
	case SourceStatic:
	case SourcePostgREST:
		if c.PostgRESTURL == "" {
			return fmt.Errorf("POSTGREST_URL is required when DIRECTORY_SOURCE is %q", SourcePostgREST)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DIRECTORY_SOURCE is %q", SourcePostgres)
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DIRECTORY_SOURCE is %q", SourceSQLite)
		}
	default:
		return fmt.Errorf("DIRECTORY_SOURCE must be one of static, postgrest, postgres, sqlite, got %q", c.DirectorySource)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.WhatsAppNumber == "" {
		return fmt.Errorf("WHATSAPP_NUMBER is required")
	}
	for _, r := range c.WhatsAppNumber {
		if r < '0' || r > '9' {
			return fmt.Errorf("WHATSAPP_NUMBER must contain digits only (country code included), got %q", c.WhatsAppNumber)
		}
	}

	if c.UsesDatabase() && c.IsProduction() && len(c.AdminJWTSecret) < 32 {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}
