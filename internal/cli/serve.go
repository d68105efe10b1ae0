package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/cache"
	"github.com/propstack/propsearch/internal/es"
	"github.com/propstack/propsearch/internal/metrics"
	chiTransport "github.com/propstack/propsearch/internal/transport/chi"
	geocodeuc "github.com/propstack/propsearch/internal/usecase/geocode"
	searchuc "github.com/propstack/propsearch/internal/usecase/search"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the query API server",
	Long: `serve starts the long-lived HTTP API: template parameter discovery,
address geocoding and templated property search. It expects the index and the
search template to exist already (see "propsearch load").`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := es.New(es.Config{
		Endpoint:       cfg.Elasticsearch.Endpoint,
		APIKey:         cfg.Elasticsearch.APIKey,
		RequestTimeout: time.Duration(cfg.Elasticsearch.RequestTimeoutSec) * time.Second,
	})
	if err != nil {
		return err
	}

	metrics.RegisterIngestMetrics()

	searchSvc := searchuc.New(store, cfg.Index.Name, cfg.Index.TemplateID, log)

	geoSvc := geocodeuc.New(nil, geocodeuc.Config{
		Endpoint:       cfg.Geocode.Endpoint,
		APIKey:         cfg.Geocode.APIKey,
		Region:         cfg.Geocode.Region,
		FallbackSuffix: cfg.Geocode.FallbackSuffix,
	}, log)

	if len(cfg.Geocode.Cache.Addrs) > 0 {
		ttl := time.Duration(cfg.Geocode.Cache.TTLSec) * time.Second
		geoCache, err := cache.New(cfg.Geocode.Cache.Addrs, cfg.Geocode.Cache.Password, ttl)
		if err != nil {
			return fmt.Errorf("connect geocode cache: %w", err)
		}
		defer geoCache.Close()
		geoSvc.WithCache(geoCache)
		log.Info("geocode cache enabled", zap.Strings("addrs", cfg.Geocode.Cache.Addrs))
	}

	server := chiTransport.NewServer(searchSvc, searchSvc, geoSvc, store, log)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(log))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
