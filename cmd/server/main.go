package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/relayhq/relay-ai/internal/api"
	"github.com/relayhq/relay-ai/internal/archive"
	"github.com/relayhq/relay-ai/internal/assistant"
	"github.com/relayhq/relay-ai/internal/auth"
	"github.com/relayhq/relay-ai/internal/config"
	"github.com/relayhq/relay-ai/internal/digest"
	"github.com/relayhq/relay-ai/internal/llm"
	"github.com/relayhq/relay-ai/internal/notifications"
	"github.com/relayhq/relay-ai/internal/store"
	"github.com/relayhq/relay-ai/internal/workspace"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Relay AI service")

	ctx := context.Background()

	// Initialize message store
	messageStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to initialize message store: %v", err)
	}
	defer messageStore.Close()

	// Initialize session store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	sessions := auth.NewSessionStore(rdb)

	// Initialize model client
	modelClient, err := llm.NewGeminiClient(ctx, llm.Options{
		APIKey:       cfg.GeminiAPIKey,
		Model:        cfg.GeminiModel,
		Timeout:      cfg.RequestTimeout,
		RetryEnabled: cfg.RetryEnabled,
		RetryBackoff: cfg.RetryBackoff,
	})
	if err != nil {
		logrus.Fatalf("Failed to initialize model client: %v", err)
	}

	// Initialize AI services
	assistantService := assistant.NewService(modelClient)
	assembler := workspace.NewAssembler(messageStore)

	// Set up HTTP server
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// AI endpoints, behind session auth
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(sessions.Middleware)
	api.NewServer(assistantService, assembler, messageStore).Register(apiRouter)

	// Start the digest scheduler when enabled
	if cfg.DigestSchedule != "off" {
		digestArchive, err := archive.NewAzureArchive(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize digest archive: %v", err)
		}

		notificationService := notifications.NewService(cfg)
		digestService := digest.NewService(cfg, messageStore, assembler, assistantService, digestArchive, notificationService)

		if err := digestService.Start(); err != nil {
			logrus.Fatalf("Failed to start digest scheduler: %v", err)
		}
		defer digestService.Stop()

		// Manual trigger endpoint, behind the same session auth as the
		// rest of /api
		apiRouter.HandleFunc("/digest/trigger", triggerHandler(digestService)).Methods("POST")
	} else {
		logrus.Info("Digest schedule is off, scheduler not started")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func triggerHandler(digestService *digest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := digestService.Run(); err != nil {
				logrus.Errorf("Manual digest trigger failed: %v", err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Digest run triggered successfully"}`))
	}
}
