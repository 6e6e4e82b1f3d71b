package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/calendar-aggregator/internal/cache"
	"github.com/pfrederiksen/calendar-aggregator/internal/fetcher"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Cache backends accepted in Config.CacheBackend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	DefaultAddr            = ":8000"
	DefaultCacheExpiration = 10 * time.Minute
	DefaultEnvFile         = ".env"
	envPrefix              = "CALAGG_"
)

// Config holds all runtime configuration parameters
type Config struct {
	Addr         string `yaml:"addr"`
	FrontendPath string `yaml:"frontend_path"`

	// CacheExpiration is how long fetched events are served from cache.
	// Zero disables caching.
	CacheExpiration time.Duration     `yaml:"cache_expiration"`
	CacheBackend    string            `yaml:"cache_backend"`
	Redis           cache.RedisConfig `yaml:"redis"`

	Fetcher fetcher.Config `yaml:"fetcher"`

	// TopicsDB is the SQLite file holding topics. Empty disables topics.
	TopicsDB string `yaml:"topics_db"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Addr:            DefaultAddr,
		CacheExpiration: DefaultCacheExpiration,
		CacheBackend:    BackendMemory,
		Redis: cache.RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "calagg:events:",
		},
		Fetcher:   fetcher.DefaultConfig(),
		LogLevel:  "info",
		LogFormat: string(logger.FormatJSON),
	}
}

// Load builds the configuration from defaults, the YAML file at configFile
// (skipped when empty), the dotenv file at envFile (skipped when missing)
// and the process environment. The result is validated.
func Load(configFile, envFile string) (*Config, error) {
	return load(configFile, envFile, os.LookupEnv)
}

func load(configFile, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	// The process environment wins over .env entries.
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return vars, nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := env(envPrefix + name); ok {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("FRONTEND_PATH", &c.FrontendPath)
	str("CACHE_BACKEND", &c.CacheBackend)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("REDIS_KEY_PREFIX", &c.Redis.KeyPrefix)
	str("FETCHER", &c.Fetcher.Kind)
	str("USER_AGENT", &c.Fetcher.UserAgent)
	str("TOPICS_DB", &c.TopicsDB)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := env(envPrefix + "CACHE_EXPIRATION"); ok {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sCACHE_EXPIRATION: %v", ErrInvalid, envPrefix, err)
		}
		c.CacheExpiration = d
	}
	if v, ok := env(envPrefix + "FETCH_TIMEOUT"); ok {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sFETCH_TIMEOUT: %v", ErrInvalid, envPrefix, err)
		}
		c.Fetcher.Timeout = d
	}
	if v, ok := env(envPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sREDIS_DB: %v", ErrInvalid, envPrefix, err)
		}
		c.Redis.DB = n
	}
	if v, ok := env(envPrefix + "MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sMAX_BODY_BYTES: %v", ErrInvalid, envPrefix, err)
		}
		c.Fetcher.MaxBodyBytes = n
	}
	return nil
}

// ParseDuration accepts Go durations ("10m", "90s") and bare numbers of
// seconds ("600").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

// Validate checks that values are sensible
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalid)
	}
	if c.CacheExpiration < 0 {
		return fmt.Errorf("%w: cache_expiration must be >= 0", ErrInvalid)
	}
	switch c.CacheBackend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for the redis cache backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache_backend %q (want %s or %s)", ErrInvalid, c.CacheBackend, BackendMemory, BackendRedis)
	}
	switch c.Fetcher.Kind {
	case fetcher.KindHTTP, fetcher.KindColly:
	default:
		return fmt.Errorf("%w: unknown fetcher.kind %q (want %s or %s)", ErrInvalid, c.Fetcher.Kind, fetcher.KindHTTP, fetcher.KindColly)
	}
	if c.Fetcher.Timeout < 0 {
		return fmt.Errorf("%w: fetcher.timeout must be >= 0", ErrInvalid)
	}
	if c.Fetcher.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: fetcher.max_body_bytes must be >= 0", ErrInvalid)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch logger.Format(c.LogFormat) {
	case logger.FormatJSON, logger.FormatText:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalid, c.LogFormat)
	}
	return nil
}
