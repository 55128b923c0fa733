// cmd/server/main.go
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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/config"
	"github.com/brandcraft/licensing-backend/internal/database"
	"github.com/brandcraft/licensing-backend/internal/router"
	"github.com/brandcraft/licensing-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize router
	r := router.Initialize(db, cfg)

	// Background workers
	ctx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	startBackgroundWorkers(ctx, db, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopWorkers()

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// startBackgroundWorkers runs the periodic jobs: expiring licenses whose end
// date has passed, refreshing in-flight payouts against Stripe, and rolling
// up yesterday's analytics events into daily metrics.
func startBackgroundWorkers(ctx context.Context, db *gorm.DB, cfg *config.Config) {
	notificationService := services.NewNotificationService(db, cfg)
	analyticsService := services.NewAnalyticsService(db)
	licenseService := services.NewLicenseService(db, notificationService, analyticsService)
	payoutService := services.NewPayoutService(db, cfg, notificationService)

	go runEvery(ctx, time.Hour, "license expiry", func() error {
		expired, err := licenseService.ExpireLicenses()
		if err == nil && expired > 0 {
			logrus.WithField("count", expired).Info("Expired licenses past their end date")
		}
		return err
	})

	pollInterval := time.Duration(cfg.Payment.PayoutPollInterval) * time.Minute
	go runEvery(ctx, pollInterval, "payout polling", payoutService.PollPendingPayouts)

	go runEvery(ctx, 24*time.Hour, "daily metric rollup", func() error {
		yesterday := time.Now().UTC().AddDate(0, 0, -1)
		return analyticsService.AggregateDaily(yesterday)
	})
}

func runEvery(ctx context.Context, interval time.Duration, name string, job func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := job(); err != nil {
				logrus.WithError(err).WithField("job", name).Error("Background job failed")
			}
		}
	}
}
