package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/database"
	"github.com/streamvp/streamvp/internal/geoip"
	"github.com/streamvp/streamvp/internal/notify"
	"github.com/streamvp/streamvp/internal/server"
)

func main() {
	port := getEnv("PORT", "8080")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		log.Fatal("BACKEND_URL is required")
	}

	botName := os.Getenv("TELEGRAM_BOT_NAME")
	if botName == "" {
		log.Fatal("TELEGRAM_BOT_NAME is required; the login widget cannot render without it")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(databaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	log.Println("database migrations applied")

	geo := geoip.New(os.Getenv("GEOIP_DB_PATH"))
	defer geo.Close()

	notifier := notify.New(
		os.Getenv("TELEGRAM_BOT_TOKEN"),
		getEnvInt64("TELEGRAM_NOTIFY_CHAT_ID", 0),
	)

	srv := server.New(server.Config{
		DB:              db.Pool,
		Pinger:          db,
		Backend:         api.New(backendURL),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		TelegramBotName: botName,
		Notifier:        notifier,
		GeoIP:           geo,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("streamvp listening on :%s", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("shutdown complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
