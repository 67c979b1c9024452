package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"moviez/api"
	"moviez/config"
	"moviez/handlers"
	"moviez/internal/metrics"
	"moviez/services/metadata"
	"moviez/services/youtube"
	"moviez/web"
)

const (
	shutdownTimeout   = 30 * time.Second
	genreWarmAttempts = 5
	genreWarmDelay    = 2 * time.Second
)

type serveOptions struct {
	addr string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address, overrides SERVER_ADDR")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts serveOptions) error {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	logCloser, err := setupLogging(cfg.Log)
	if err != nil {
		return fmt.Errorf("log setup: %w", err)
	}
	defer logCloser.Close()

	log.Printf("[startup] moviez %s", handlers.GetVersion())
	if err := cfg.Validate(); err != nil {
		log.Printf("[startup] %v; catalog views will show a configuration message", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	templateFS, err := web.TemplateFS(cfg.Template.Dir)
	if err != nil {
		return err
	}
	templates, err := web.ParseTemplates(templateFS)
	if err != nil {
		return err
	}

	httpc := &http.Client{Timeout: cfg.HTTP.Timeout}
	catalog := metadata.NewService(cfg.TMDB, httpc, recorder)
	videos := youtube.NewClient(cfg.YouTube.APIKey, "", httpc)

	a := &app{
		pages:    handlers.NewPagesHandler(catalog, templates, recorder),
		live:     handlers.NewLiveHandler(catalog, templates, recorder),
		trailers: handlers.NewTrailerHandler(catalog, videos),
		images:   handlers.NewImageHandler(catalog, httpc, cfg.ImageCache.Size, cfg.ImageCache.TTL, recorder),
		static:   handlers.NewStaticHandler(web.Static()),
		version:  handlers.NewVersionHandler(),
		metrics:  metrics.Handler(registry),
		limiter:  api.PerMinute(cfg.RateLimit.PerMinute),
	}
	defer a.limiter.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if catalog.Configured() {
		go func() {
			if err := catalog.WarmGenres(ctx, genreWarmAttempts, genreWarmDelay); err != nil {
				log.Printf("[startup] genre warm-up failed: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[startup] listening addr=%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[shutdown] stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.live.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Printf("[shutdown] server stopped")
	return nil
}
