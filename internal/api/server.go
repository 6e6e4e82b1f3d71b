package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/calendar-aggregator/internal/fetcher"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
	"github.com/pfrederiksen/calendar-aggregator/internal/topic"
)

// TopicStore is the subset of topic.Store used by the topic routes.
type TopicStore interface {
	Add(ctx context.Context, name string, urls []string) (topic.Topic, error)
	List(ctx context.Context) ([]topic.Topic, error)
	Get(ctx context.Context, id int64) (topic.Topic, error)
	Delete(ctx context.Context, id int64) error
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	fetcher  fetcher.Fetcher
	topics   TopicStore
	frontend string
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithTopics enables the topic routes backed by store.
func WithTopics(store TopicStore) Option {
	return func(s *Server) {
		s.topics = store
	}
}

// WithFrontend serves the static files in dir for non-API paths.
func WithFrontend(dir string) Option {
	return func(s *Server) {
		s.frontend = dir
	}
}

// WithClock replaces the clock that decides which events are upcoming.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates a Server that fetches events with f.
func NewServer(f fetcher.Fetcher, opts ...Option) *Server {
	s := &Server{fetcher: f, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	RegisterHealthRoutes(r)
	s.RegisterEventRoutes(r)
	s.RegisterTopicRoutes(r)
	s.registerFrontend(r)
	return r
}

// RegisterHealthRoutes registers health and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", handleHealth)
	r.GET("/api/metrics", handleMetrics)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, logger.MetricsSnapshot())
}

// registerFrontend serves index.html at / and static files elsewhere,
// leaving unknown /api paths as JSON 404s.
func (s *Server) registerFrontend(r *gin.Engine) {
	if s.frontend == "" {
		return
	}
	index := filepath.Join(s.frontend, "index.html")
	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		path := filepath.Join(s.frontend, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// requestLogger logs one line per request through the logger package.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("HTTP request", logger.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
