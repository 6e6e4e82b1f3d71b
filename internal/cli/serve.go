package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/calendar-aggregator/internal/api"
	"github.com/pfrederiksen/calendar-aggregator/internal/config"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
	"github.com/pfrederiksen/calendar-aggregator/internal/topic"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	addr            string
	frontend        string
	cacheExpiration string
	cacheBackend    string
	fetcherKind     string
	topicsDB        string
}

func newServeCmd(g *globalFlags) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. GET /api/events?urls=["https://..."] returns the
upcoming events of each page; see the api package for all routes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", config.DefaultAddr, "Listen address")
	cmd.Flags().StringVar(&f.frontend, "frontend", "", "Directory with static frontend files")
	cmd.Flags().StringVar(&f.cacheExpiration, "cache-expiration", "", "Cache lifetime, e.g. 10m or 600 (0 disables caching)")
	cmd.Flags().StringVar(&f.cacheBackend, "cache-backend", "", "Cache backend: memory or redis")
	cmd.Flags().StringVar(&f.fetcherKind, "fetcher", "", "Page fetcher: http or colly")
	cmd.Flags().StringVar(&f.topicsDB, "topics-db", "", "SQLite file for topics (empty disables topics)")

	return cmd
}

// apply overrides cfg with the flags given on the command line.
func (f *serveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = f.addr
	}
	if flags.Changed("frontend") {
		cfg.FrontendPath = f.frontend
	}
	if flags.Changed("cache-expiration") {
		d, err := config.ParseDuration(f.cacheExpiration)
		if err != nil {
			return fmt.Errorf("invalid --cache-expiration: %w", err)
		}
		cfg.CacheExpiration = d
	}
	if flags.Changed("cache-backend") {
		cfg.CacheBackend = f.cacheBackend
	}
	if flags.Changed("fetcher") {
		cfg.Fetcher.Kind = f.fetcherKind
	}
	if flags.Changed("topics-db") {
		cfg.TopicsDB = f.topicsDB
	}
	return cfg.Validate()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	f, ec, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	defer ec.close()
	go ec.janitor(ctx, cfg.CacheExpiration)

	opts := []api.Option{}
	if cfg.TopicsDB != "" {
		store, err := topic.Open(cfg.TopicsDB)
		if err != nil {
			return fmt.Errorf("opening topics database: %w", err)
		}
		defer store.Close()
		opts = append(opts, api.WithTopics(store))
	}
	if cfg.FrontendPath != "" {
		opts = append(opts, api.WithFrontend(cfg.FrontendPath))
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(f, opts...).NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", logger.Fields{
			"addr":          cfg.Addr,
			"cache_backend": cfg.CacheBackend,
			"cache_ttl":     cfg.CacheExpiration.String(),
			"fetcher":       cfg.Fetcher.Kind,
			"topics":        cfg.TopicsDB != "",
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
