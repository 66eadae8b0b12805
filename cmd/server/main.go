package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/app"
	"github.com/fakebaseball/stats-api/internal/config"
	"github.com/fakebaseball/stats-api/internal/handlers"
	"github.com/fakebaseball/stats-api/internal/logic"
	"github.com/fakebaseball/stats-api/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Sugar().Fatalw("Server exited with error", "error", err)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Sugar()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		Writer:        b.Writer,
		Cache:         b.Cache,
		Logger:        logger,
	})
	pool.Start(context.Background())

	h := handlers.New(handlers.Config{
		WorkerPool:  pool,
		Directory:   b.Directory,
		Logger:      logger,
		Checks:      b.Checks,
		Schemas:     b.Schemas,
		Patterns:    b.PatternService(cfg, logger),
		Predictions: logic.NewPredictionService(b.Events, b.Directory, logger),
		Players:     logic.NewPlayerService(b.Directory, b.Cache, logger),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           h.Routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("HTTP server listening", "addr", srv.Addr, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		pool.Stop()
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}
	// Drain after the listener is closed so no new appearances arrive.
	pool.Stop()
	log.Info("Server stopped")
	return nil
}
