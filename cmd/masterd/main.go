package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/trabajostecnicos73/app-control-smartparking/config"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/api"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/db"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/notification"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/reconcile"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "parking-master ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	reconciler := reconcile.NewReconciler(appStore)
	aggregator := reconcile.NewAggregator(appStore)
	logger.Println("sync pipeline initialized")

	var webpushOptions *webpush.Options
	var notifier *notification.WorkerPool
	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			logger.Fatalf("push is enabled but VAPID keys are not configured")
		}
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		notifier = notification.NewWorkerPool(cfg.Push.Workers, appStore, webpushOptions)
		notifier.Start(ctx)
		logger.Printf("alert notifier started with %d workers", cfg.Push.Workers)
	}

	handler := api.NewHandler(appStore, reconciler, aggregator, notifier, webpushOptions, cfg.History)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
