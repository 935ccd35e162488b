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

	"github.com/joho/godotenv"

	"menuboard/internal/database"
	"menuboard/internal/logging"
	"menuboard/internal/server"
	"menuboard/internal/storage"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	godotenv.Load()

	logger := logging.Setup(os.Getenv("MENUBOARD_LOG_LEVEL"))

	port := os.Getenv("MENUBOARD_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("MENUBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "menuboard.db"
	}

	baseURL := os.Getenv("MENUBOARD_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	storageCfg := storage.Config{
		Endpoint:      os.Getenv("MENUBOARD_S3_ENDPOINT"),
		Bucket:        os.Getenv("MENUBOARD_S3_BUCKET"),
		Region:        os.Getenv("MENUBOARD_S3_REGION"),
		AccessKey:     os.Getenv("MENUBOARD_S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("MENUBOARD_S3_SECRET_KEY"),
		PublicBaseURL: os.Getenv("MENUBOARD_S3_PUBLIC_URL"),
	}
	if !storageCfg.Enabled() {
		logger.Warn("object storage not configured, logo uploads disabled")
	}

	srv := server.New(db, baseURL, storageCfg, logger)

	// Periodic cleanup of expired sessions and stale rate limiter entries.
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("deleted expired sessions", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Menuboard running at %s\n", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
