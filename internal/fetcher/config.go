package fetcher

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/cache"
	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/extractor"
)

// Source kinds accepted in Config.Kind.
const (
	KindHTTP  = "http"
	KindColly = "colly"
)

const (
	DefaultUserAgent    = "calendar-aggregator/1.0 (github.com/pfrederiksen/calendar-aggregator)"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 10 << 20
)

// Config selects and tunes the HTML source.
type Config struct {
	Kind         string        `yaml:"kind"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Kind:         KindHTTP,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Kind == "" {
		c.Kind = d.Kind
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	return c
}

// NewSource returns the HTML source named by cfg.Kind.
func NewSource(cfg Config) (Source, error) {
	cfg = cfg.withDefaults()
	switch cfg.Kind {
	case KindHTTP:
		return NewHTTP(cfg), nil
	case KindColly:
		return NewColly(cfg), nil
	default:
		return nil, fmt.Errorf("unknown fetcher kind %q (want %s or %s)", cfg.Kind, KindHTTP, KindColly)
	}
}

// New assembles the full fetch stack: the configured source, the rule-based
// extractor and the given cache.
func New(cfg Config, store cache.Store[[]event.Event]) (*Cached, error) {
	src, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	return NewCached(NewPipeline(src, extractor.NewRuleBased()), store), nil
}
