package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/fetcher"
)

func noEnv(string) (string, bool) { return "", false }

func mapEnv(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("", "", noEnv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.Addr != ":8000" {
		t.Errorf("Addr = %q, want :8000", cfg.Addr)
	}
	if cfg.CacheExpiration != 10*time.Minute {
		t.Errorf("CacheExpiration = %v, want 10m", cfg.CacheExpiration)
	}
	if cfg.CacheBackend != BackendMemory {
		t.Errorf("CacheBackend = %q, want memory", cfg.CacheBackend)
	}
	if cfg.Fetcher.Kind != fetcher.KindHTTP {
		t.Errorf("Fetcher.Kind = %q, want http", cfg.Fetcher.Kind)
	}
	if cfg.Fetcher.Timeout != 30*time.Second {
		t.Errorf("Fetcher.Timeout = %v, want 30s", cfg.Fetcher.Timeout)
	}
	if cfg.TopicsDB != "" {
		t.Errorf("TopicsDB = %q, want empty", cfg.TopicsDB)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
addr: ":9090"
frontend_path: /srv/frontend
cache_expiration: 0s
cache_backend: redis
redis:
  addr: redis:6379
  db: 2
fetcher:
  kind: colly
  timeout: 5s
topics_db: topics.db
log_level: debug
log_format: text
`)

	cfg, err := load(path, "", noEnv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.FrontendPath != "/srv/frontend" {
		t.Errorf("FrontendPath = %q", cfg.FrontendPath)
	}
	if cfg.CacheExpiration != 0 {
		t.Errorf("CacheExpiration = %v, want 0 (explicitly disabled)", cfg.CacheExpiration)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Redis.KeyPrefix != "calagg:events:" {
		t.Errorf("Redis.KeyPrefix = %q, want default kept", cfg.Redis.KeyPrefix)
	}
	if cfg.Fetcher.Kind != fetcher.KindColly || cfg.Fetcher.Timeout != 5*time.Second {
		t.Errorf("Fetcher = %+v", cfg.Fetcher)
	}
	if cfg.Fetcher.UserAgent != fetcher.DefaultUserAgent {
		t.Errorf("Fetcher.UserAgent = %q, want default kept", cfg.Fetcher.UserAgent)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "text" {
		t.Errorf("LogLevel/LogFormat = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadPrecedence(t *testing.T) {
	yamlPath := writeFile(t, "config.yaml", "addr: \":7000\"\ncache_expiration: 1m\nlog_level: warn\n")
	envPath := writeFile(t, ".env", "CALAGG_ADDR=:7500\nCALAGG_CACHE_EXPIRATION=120\nCALAGG_TOPICS_DB=from-dotenv.db\n")

	env := mapEnv(map[string]string{
		"CALAGG_ADDR": ":8080",
	})

	cfg, err := load(yamlPath, envPath, env)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"process env beats dotenv and yaml", cfg.Addr, ":8080"},
		{"dotenv beats yaml", cfg.CacheExpiration, 2 * time.Minute},
		{"dotenv beats default", cfg.TopicsDB, "from-dotenv.db"},
		{"yaml beats default", cfg.LogLevel, "warn"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	if _, err := load("", filepath.Join(t.TempDir(), "missing.env"), noEnv); err != nil {
		t.Errorf("load() with missing .env error = %v", err)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "missing.yaml"), "", noEnv); err == nil {
		t.Error("load() with missing config file succeeded, want error")
	}
}

func TestLoadBadEnvValue(t *testing.T) {
	env := mapEnv(map[string]string{"CALAGG_CACHE_EXPIRATION": "soon"})
	_, err := load("", "", env)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("load() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero cache expiration", func(c *Config) { c.CacheExpiration = 0 }, false},
		{"negative cache expiration", func(c *Config) { c.CacheExpiration = -time.Second }, true},
		{"unknown backend", func(c *Config) { c.CacheBackend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.CacheBackend = BackendRedis; c.Redis.Addr = "" }, true},
		{"unknown fetcher", func(c *Config) { c.Fetcher.Kind = "curl" }, true},
		{"negative timeout", func(c *Config) { c.Fetcher.Timeout = -time.Second }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty addr", func(c *Config) { c.Addr = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"600", 10 * time.Minute, false},
		{"0", 0, false},
		{"1.5", 1500 * time.Millisecond, false},
		{"10m", 10 * time.Minute, false},
		{" 90s ", 90 * time.Second, false},
		{"later", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
