package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the service
type Config struct {
	Server   ServerConfig  `mapstructure:"server"`
	CORS     CORSConfig    `mapstructure:"cors"`
	Datasets DatasetConfig `mapstructure:"datasets"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Log      LogConfig     `mapstructure:"log"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// CORSConfig lists the frontends allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxAge         int      `mapstructure:"max_age"`
}

// DatasetConfig sizes and seeds the generated datasets
type DatasetConfig struct {
	Seed      int64 `mapstructure:"seed"`
	StockDays int   `mapstructure:"stock_days"`
	Employees int   `mapstructure:"employees"`
	// Eager generates every dataset at start-up instead of on first request.
	Eager bool `mapstructure:"eager"`
}

// CacheConfig sizes the derived-view cache. Zero disables it.
type CacheConfig struct {
	ViewSize int `mapstructure:"view_size"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              "8000",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"},
			MaxAge:         300,
		},
		Datasets: DatasetConfig{
			Seed:      42,
			StockDays: 365,
			Employees: 100,
		},
		Cache: CacheConfig{
			ViewSize: 128,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration from path (or dataapp.{toml,yaml,json} in the
// working directory when path is empty) and DATAAPP_* environment variables.
// A missing default config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("DATAAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "DATAAPP_SERVER_PORT", "PORT"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dataapp")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("cors.allowed_origins", d.CORS.AllowedOrigins)
	v.SetDefault("cors.max_age", d.CORS.MaxAge)
	v.SetDefault("datasets.seed", d.Datasets.Seed)
	v.SetDefault("datasets.stock_days", d.Datasets.StockDays)
	v.SetDefault("datasets.employees", d.Datasets.Employees)
	v.SetDefault("datasets.eager", d.Datasets.Eager)
	v.SetDefault("cache.view_size", d.Cache.ViewSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// ConfigError reports an invalid configuration field
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return &ConfigError{Field: "server.port", Message: "must not be empty"}
	}
	if c.Datasets.StockDays < 7 {
		return &ConfigError{Field: "datasets.stock_days", Message: "must be at least 7"}
	}
	if c.Datasets.Employees < 0 {
		return &ConfigError{Field: "datasets.employees", Message: "must not be negative"}
	}
	if c.Cache.ViewSize < 0 {
		return &ConfigError{Field: "cache.view_size", Message: "must not be negative"}
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return &ConfigError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return &ConfigError{Field: "log.format", Message: "must be 'text' or 'json'"}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return &ConfigError{Field: "metrics.path", Message: "must start with '/'"}
	}
	return nil
}
