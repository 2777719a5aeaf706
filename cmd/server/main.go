package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpadapter "alevatex/internal/adapters/http"
	"alevatex/internal/app"
	"alevatex/internal/config"
	"alevatex/internal/logging"
)

func main() {
	cfg, cfgErr := config.Load()
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if cfgErr != nil {
		log.Fatalf("config: %v", cfgErr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.Open(ctx, cfg, log, reg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer a.Close()

	if cfg.RelayWorkers > 0 {
		a.Relay.Run(ctx, cfg.RelayWorkers)
		log.Infof("relay workers started: %d", cfg.RelayWorkers)
	}

	srv := httpadapter.New(a.Submissions, a.Leads, cfg.ExportPrefix, reg, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.WithField("env", cfg.Env).Infof("listening on %s", cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Infof("shutting down on %s", sig)
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown failed")
		}
		cancel()
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}
}
