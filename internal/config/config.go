package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Catalog CatalogConfig `koanf:"catalog"`
	Oracle  OracleConfig  `koanf:"oracle"`
	Cache   CacheConfig   `koanf:"cache"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Port              string        `koanf:"port"`
	Environment       string        `koanf:"environment"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

type CatalogConfig struct {
	// Dir holds heroes.json and meta.json.
	Dir             string        `koanf:"dir"`
	OpenDotaURL     string        `koanf:"opendota_url"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	RefreshOnStart  bool          `koanf:"refresh_on_start"`
	HTTPTimeout     time.Duration `koanf:"http_timeout"`
}

type OracleConfig struct {
	// Provider is openai, gemini or none.
	Provider     string        `koanf:"provider"`
	OpenAIAPIKey string        `koanf:"openai_api_key"`
	GeminiAPIKey string        `koanf:"gemini_api_key"`
	BaseURL      string        `koanf:"base_url"`
	Model        string        `koanf:"model"`
	Temperature  float64       `koanf:"temperature"`
	MaxTokens    int           `koanf:"max_tokens"`
	Timeout      time.Duration `koanf:"timeout"`

	// Circuit breaker around the provider.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	// SchemaPath and PromptDir override the embedded response schema and prompt templates.
	SchemaPath string `koanf:"schema_path"`
	PromptDir  string `koanf:"prompt_dir"`
}

type CacheConfig struct {
	// Backend is badger, postgres or redis.
	Backend     string `koanf:"backend"`
	BadgerPath  string `koanf:"badger_path"`
	DatabaseURL string `koanf:"database_url"`
	RedisAddr   string `koanf:"redis_addr"`
	RedisDB     int    `koanf:"redis_db"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              "8000",
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 5,
			RateLimitWindow:   time.Minute,
		},
		Catalog: CatalogConfig{
			Dir:             "data",
			OpenDotaURL:     "https://api.opendota.com/api",
			RefreshInterval: 72 * time.Hour,
			RefreshOnStart:  false,
			HTTPTimeout:     10 * time.Second,
		},
		Oracle: OracleConfig{
			Provider:        "openai",
			BaseURL:         "https://api.openai.com/v1",
			Model:           "gpt-4o",
			Temperature:     0.7,
			MaxTokens:       2000,
			Timeout:         60 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    "badger",
			BadgerPath: "cache",
			RedisAddr:  "localhost:6379",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment,
// in increasing order of priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if raw, ok := k.Get("server.cors_origins").(string); ok {
		if err := k.Set("server.cors_origins", splitList(raw)); err != nil {
			return nil, fmt.Errorf("failed to parse CORS origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variables onto config keys. Unlisted variables are ignored.
var envMappings = map[string]string{
	"port":                  "server.port",
	"environment":           "server.environment",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"catalog_dir":           "catalog.dir",
	"opendota_url":          "catalog.opendota_url",
	"meta_refresh_interval": "catalog.refresh_interval",
	"meta_refresh_on_start": "catalog.refresh_on_start",
	"oracle_provider":       "oracle.provider",
	"openai_api_key":        "oracle.openai_api_key",
	"gemini_api_key":        "oracle.gemini_api_key",
	"openai_base_url":       "oracle.base_url",
	"openai_model":          "oracle.model",
	"openai_temp":           "oracle.temperature",
	"openai_max_tokens":     "oracle.max_tokens",
	"openai_timeout":        "oracle.timeout",
	"oracle_schema_path":    "oracle.schema_path",
	"oracle_prompt_dir":     "oracle.prompt_dir",
	"cache_backend":         "cache.backend",
	"cache_dir":             "cache.badger_path",
	"database_url":          "cache.database_url",
	"redis_addr":            "cache.redis_addr",
	"redis_db":              "cache.redis_db",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Oracle.Provider {
	case "openai", "gemini", "none":
	default:
		return fmt.Errorf("unknown oracle provider %q", c.Oracle.Provider)
	}

	switch c.Cache.Backend {
	case "badger", "redis":
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres cache backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.Catalog.Dir == "" {
		return fmt.Errorf("catalog directory is required")
	}
	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// APIKey returns the key of the selected provider, or "" when it has none.
func (o OracleConfig) APIKey() string {
	switch o.Provider {
	case "openai":
		return o.OpenAIAPIKey
	case "gemini":
		return o.GeminiAPIKey
	default:
		return ""
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// LogFormat is the configured log format, always json in production.
func (c *Config) LogFormat() string {
	if c.IsProduction() {
		return "json"
	}
	return c.Logging.Format
}
