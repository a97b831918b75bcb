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

	"housekeeping-backend/config"
	"housekeeping-backend/internal/api"
	"housekeeping-backend/internal/bot"
	"housekeeping-backend/internal/db"
	"housekeeping-backend/internal/notification"
	"housekeeping-backend/internal/session"
	"housekeeping-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "housekeepd ", log.LstdFlags)

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
	logger.Println("data store initialized")

	// Web push is optional; without VAPID keys the browser channel stays off.
	var webpushOptions *webpush.Options
	var pool *notification.WorkerPool
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		logger.Printf("push notification worker pool started (size %d)", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys are not configured; web push notifications disabled")
	}

	var notifier *notification.Router
	if cfg.Bot.Enabled && cfg.Bot.Token != "" {
		gateway, err := bot.NewTelegramGateway(cfg.Bot.Token, cfg.Bot.SendRatePerSec, cfg.Bot.PollTimeoutSeconds)
		if err != nil {
			logger.Fatalf("failed to initialize Telegram gateway: %v", err)
		}
		notifier = notification.NewRouter(appStore, gateway, pool)

		sessions := session.NewStore(cfg.Session.TTL)
		dispatcher := bot.NewDispatcher(appStore, sessions, gateway, notifier, cfg.Assignment.Quota)
		go gateway.Poll(ctx, dispatcher)
	} else {
		logger.Println("Telegram bot is disabled; running API only")
		notifier = notification.NewRouter(appStore, nil, pool)
	}

	router := api.NewRouter(appStore, webpushOptions, notifier, api.RouterOptions{
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		CacheTTL:        time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
	})
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
