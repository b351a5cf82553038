package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/figport/internal/api"
	"github.com/dgallion1/figport/internal/config"
	"github.com/dgallion1/figport/internal/pipeline"
	"github.com/spf13/afero"
)

func main() {
	cfg := config.Load()
	cfg.LogFormat = "json"
	log := cfg.Logger(os.Stdout)

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exporter := pipeline.NewExporter(afero.NewOsFs(), cfg.ExportDir, cfg.JobTTL, log)
	exporter.Start(ctx, 5*time.Minute)

	srv, err := api.NewServer(exporter, log, cfg)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		exporter.Stop()
	}()

	log.Info("starting figport server", "port", cfg.Port, "export_dir", cfg.ExportDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
