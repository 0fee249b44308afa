package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Weather      WeatherConfig      `mapstructure:"weather"`
	Geocode      GeocodeConfig      `mapstructure:"geocode"`
	Cache        CacheConfig        `mapstructure:"cache"`
	NATS         NATSConfig         `mapstructure:"nats"`
	Device       DeviceConfig       `mapstructure:"device"`
	Pipeline     PipelineConfig     `mapstructure:"pipeline"`
	Presentation PresentationConfig `mapstructure:"presentation"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Upper bound on how long ?wait=true requests block for a presentation.
	MaxWait time.Duration `mapstructure:"max_wait"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	// Zero keeps the HTTP client's default (no deadline).
	Timeout time.Duration `mapstructure:"timeout"`
}

type GeocodeConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	// "none", "sqlite", "postgres", or "redis".
	Backend  string        `mapstructure:"backend"`
	DSN      string        `mapstructure:"dsn"`
	TTL      time.Duration `mapstructure:"ttl"`
	SeedPath string        `mapstructure:"seed_path"`
}

type NATSConfig struct {
	// Empty disables outcome publishing.
	URL string `mapstructure:"url"`
}

type DeviceConfig struct {
	PermissionGranted bool `mapstructure:"permission_granted"`
}

type PipelineConfig struct {
	DiscardStale bool `mapstructure:"discard_stale"`
}

type PresentationConfig struct {
	History int `mapstructure:"history"`
}

// Unprefixed environment variables kept for compatibility with existing deployments.
var legacyEnv = map[string]string{
	"server.port":     "PORT",
	"weather.api_key": "OPENWEATHER_API_KEY",
	"geocode.api_key": "ORS_API_KEY",
	"cache.dsn":       "DATABASE_URL",
}

// Load reads .env (if present), an optional config.yaml, and environment variables.
// WEATHERMAP_CACHE_BACKEND overrides cache.backend, and so on.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_wait", 20*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org")
	v.SetDefault("weather.timeout", time.Duration(0))
	v.SetDefault("geocode.base_url", "https://api.openrouteservice.org")
	v.SetDefault("geocode.timeout", 10*time.Second)
	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.ttl", 30*24*time.Hour)
	v.SetDefault("cache.seed_path", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("device.permission_granted", false)
	v.SetDefault("pipeline.discard_stale", false)
	v.SetDefault("presentation.history", 100)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("WEATHERMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "WEATHERMAP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		errs = append(errs, "weather.api_key (OPENWEATHER_API_KEY) is required")
	}
	if strings.TrimSpace(c.Geocode.APIKey) == "" {
		errs = append(errs, "geocode.api_key (ORS_API_KEY) is required")
	}
	switch c.Cache.Backend {
	case "none":
	case "sqlite", "postgres", "redis":
		if strings.TrimSpace(c.Cache.DSN) == "" {
			errs = append(errs, fmt.Sprintf("cache.dsn is required for cache.backend=%s", c.Cache.Backend))
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be none, sqlite, postgres, or redis, got %q", c.Cache.Backend))
	}
	if c.Weather.Timeout < 0 {
		errs = append(errs, "weather.timeout must not be negative")
	}
	if c.Server.MaxWait <= 0 {
		errs = append(errs, "server.max_wait must be positive")
	}
	if c.Presentation.History <= 0 {
		errs = append(errs, "presentation.history must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Get returns the environment variable key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
