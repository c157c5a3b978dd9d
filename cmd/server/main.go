package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashpulse/internal/api"
	"github.com/vytor/flashpulse/internal/config"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/repository"
	"github.com/vytor/flashpulse/internal/store"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("flashpulse server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_driver=%s", cfg.StoreDriver)
	log.Debug("data_path=%s", cfg.DataPath)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)

	deckStore, ready, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open %s store: %v", cfg.StoreDriver, err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing store")
		if err := closeStore(); err != nil {
			log.Error("failed to close store: %v", err)
		}
	}()

	srv := &api.Server{
		Decks: repository.NewDeckRepository(deckStore),
		Ready: ready,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case err := <-serveErr:
		log.Error("HTTP server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("flashpulse server stopped")
}

// openStore builds the deck document store selected by STORE_DRIVER.
func openStore(cfg config.Config) (store.Store, func(context.Context) error, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverFile:
		fs := store.NewFileStore(cfg.DataPath)
		ready := func(ctx context.Context) error {
			_, err := fs.Read(ctx)
			return err
		}
		return fs, ready, func() error { return nil }, nil
	case config.DriverSQLite:
		ss, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return ss, ss.Ping, ss.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
