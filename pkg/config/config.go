package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard gateway.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API key, redis password) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Redis    RedisConfig    `yaml:"redis"`
	CORS     CORSConfig     `yaml:"cors"`
	Auth     AuthConfig     `yaml:"auth"`
}

// UpstreamConfig holds the training provider connection settings.
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url" env:"DENDREO_BASE_URL" env-default:"https://pro.dendreo.com/competences_et_metiers/api"`
	Timeout time.Duration `yaml:"timeout" env:"DENDREO_TIMEOUT" env-default:"15s"`
	APIKey  string        `yaml:"-" env:"DENDREO_API_KEY"` // Secret - not in YAML
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	// Backend is "redis", "memory" or "none".
	Backend       string        `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	TTL           time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
	MaxEntries    int           `yaml:"max_entries" env:"CACHE_MAX_ENTRIES" env-default:"10000"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"CACHE_SWEEP_INTERVAL" env-default:"1m"`
}

// RedisConfig holds the redis connection used by the "redis" cache backend.
type RedisConfig struct {
	Host      string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB        int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Password  string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"dashboard"`
}

// CORSConfig lists the origins echoed back in Access-Control-Allow-Origin.
// An empty list allows any origin ("*").
type CORSConfig struct {
	AllowedOriginsStr string   `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:""`
	AllowedOrigins    []string `yaml:"-"`
}

// AuthConfig controls bearer token decoding.
type AuthConfig struct {
	// VerifySignatures enables JWKS signature verification of bearer tokens.
	// Off by default: tokens are only a source for the caller's email.
	VerifySignatures bool   `yaml:"verify_signatures" env:"AUTH_VERIFY_SIGNATURES" env-default:"false"`
	JWKSURL          string `yaml:"jwks_url" env:"AUTH_JWKS_URL" env-default:""`
}

// Load reads configuration from config.yaml with environment variable overrides.
// A .env file in the working directory, when present, is loaded into the environment first
// without overriding variables that are already set. A missing config.yaml is not an error.
func Load(version string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.CORS.AllowedOrigins = parseList(cfg.CORS.AllowedOriginsStr)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("unknown cache backend %q (want redis, memory or none)", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Auth.VerifySignatures && c.Auth.JWKSURL == "" {
		return fmt.Errorf("auth.jwks_url is required when auth.verify_signatures is set")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.BindAddr, c.Port)
}

// IsLocal reports whether the process runs in local development mode.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

// Addr returns the redis address, rewriting localhost when running inside Docker.
func (c *RedisConfig) Addr() string {
	return net.JoinHostPort(ResolveHostForDocker(c.Host), strconv.Itoa(c.Port))
}

// parseList splits a comma-separated list, dropping blanks.
func parseList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
