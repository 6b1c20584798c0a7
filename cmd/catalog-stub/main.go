package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/config"
	httpDelivery "github.com/stylecheck/reconciler/internal/delivery/http"
	"github.com/stylecheck/reconciler/internal/infrastructure/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(nil)
	if err != nil {
		logger.New(nil).Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     "stdout",
		TimeFormat: logger.DefaultConfig().TimeFormat,
	})
	defer log.Sync()

	fixture, err := httpDelivery.LoadFixture(cfg.Stub.Fixture)
	if err != nil {
		log.Fatal("Failed to load fixture", zap.Error(err))
	}

	handler := httpDelivery.NewHandler(fixture, log)
	router := httpDelivery.SetupRouter(cfg, handler, log.Named("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Stub.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Catalog stub listening",
			zap.String("addr", srv.Addr),
			zap.Int("products", len(fixture.Products)),
			zap.Int("faults", len(fixture.Faults)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down catalog stub...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
}
