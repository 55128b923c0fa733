// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/config"
	"github.com/brandcraft/licensing-backend/internal/handlers"
	"github.com/brandcraft/licensing-backend/internal/middleware"
	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	analyticsService := services.NewAnalyticsService(db)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	assetService := services.NewAssetService(db, storageService)
	brandService := services.NewBrandService(db)
	licenseService := services.NewLicenseService(db, notificationService, analyticsService)
	payoutService := services.NewPayoutService(db, cfg, notificationService)
	taxService := services.NewTaxService(db, cfg, storageService)
	reportService := services.NewReportService(db, storageService)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	assetHandler := handlers.NewAssetHandler(assetService, storageService)
	brandHandler := handlers.NewBrandHandler(brandService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	taxHandler := handlers.NewTaxHandler(taxService)
	reportHandler := handlers.NewReportHandler(reportService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify-email/:token", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.PUT("/stripe-account", userHandler.LinkStripeAccount)
				protected.DELETE("/account", userHandler.DeleteAccount)
			}
		}

		// IP asset routes
		assets := v1.Group("/ip-assets")
		{
			assets.GET("", middleware.OptionalAuth(), assetHandler.SearchAssets)
			assets.GET("/:id", middleware.OptionalAuth(), assetHandler.GetAsset)

			protected := assets.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", assetHandler.CreateAsset)
				protected.PUT("/:id", assetHandler.UpdateAsset)
				protected.DELETE("/:id", assetHandler.DeleteAsset)
				protected.POST("/:id/files", middleware.UploadRateLimit(), assetHandler.UploadAssetFile)
				protected.PUT("/:id/ownership", assetHandler.SetOwnership)
				protected.PUT("/:id/ownership/:record_id/dispute", assetHandler.FlagDispute)
				protected.POST("/:id/publish", assetHandler.PublishAsset)
			}
		}

		// Brand routes
		brands := v1.Group("/brands")
		{
			brands.GET("", brandHandler.ListBrands)
			brands.GET("/:id", brandHandler.GetBrand)

			protected := brands.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", brandHandler.CreateBrand)
				protected.PUT("/:id", brandHandler.UpdateBrand)
				protected.GET("/:id/budget", brandHandler.GetCommittedBudget)
			}
		}

		// License routes
		licenses := v1.Group("/licenses")
		licenses.Use(middleware.AuthRequired())
		{
			licenses.POST("/validate", middleware.ValidationRateLimit(), licenseHandler.ValidateLicense)
			licenses.POST("", middleware.ValidationRateLimit(), licenseHandler.CreateLicense)
			licenses.GET("", licenseHandler.ListLicenses)
			licenses.GET("/:id", licenseHandler.GetLicense)
			licenses.PUT("/:id/approve", licenseHandler.ApproveLicense)
			licenses.PUT("/:id/reject", licenseHandler.RejectLicense)
			licenses.PUT("/:id/revoke", licenseHandler.RevokeLicense)
		}

		// Payout routes
		payouts := v1.Group("/payouts")
		payouts.Use(middleware.AuthRequired())
		{
			payouts.GET("/balance", payoutHandler.GetBalance)
			payouts.POST("", middleware.PayoutRateLimit(), payoutHandler.RequestPayout)
			payouts.GET("", payoutHandler.ListPayouts)
			payouts.GET("/:id", payoutHandler.GetPayout)
			payouts.POST("/:id/poll", middleware.PayoutRateLimit(), payoutHandler.PollPayout)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.GET("/preferences", notificationHandler.GetPreferences)
			notifications.PUT("/preferences", notificationHandler.UpdatePreferences)
		}

		// Tax document routes
		taxDocuments := v1.Group("/tax-documents")
		taxDocuments.Use(middleware.AuthRequired())
		{
			taxDocuments.POST("", middleware.UploadRateLimit(), taxHandler.SubmitDocument)
			taxDocuments.GET("", taxHandler.ListDocuments)
			taxDocuments.GET("/:id", taxHandler.GetDocument)
			taxDocuments.GET("/:id/download", taxHandler.DownloadDocument)
		}

		// Report routes
		reports := v1.Group("/reports")
		reports.Use(middleware.AuthRequired())
		{
			reports.POST("", reportHandler.RequestReport)
			reports.GET("", reportHandler.ListReports)
			reports.GET("/:id", reportHandler.GetReport)
			reports.GET("/:id/download", reportHandler.DownloadReport)
		}

		// Analytics ingestion
		analytics := v1.Group("/analytics")
		analytics.Use(middleware.AuthRequired())
		{
			analytics.POST("/events", analyticsHandler.IngestEvent)
			analytics.POST("/events/batch", analyticsHandler.IngestEvents)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
			}

			adminAssets := admin.Group("/assets")
			{
				adminAssets.GET("/review", adminHandler.GetAssetsInReview)
				adminAssets.POST("/:id/approve", adminHandler.ApproveAsset)
				adminAssets.POST("/:id/suspend", adminHandler.SuspendAsset)
			}

			admin.PUT("/brands/:id/verify", brandHandler.VerifyBrand)

			admin.GET("/licenses", adminHandler.GetLicenses)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)

			adminTax := admin.Group("/tax-documents")
			{
				adminTax.GET("/missing", taxHandler.MissingForYear)
				adminTax.PUT("/:id/review", taxHandler.ReviewDocument)
			}

			adminAnalytics := admin.Group("/analytics")
			{
				adminAnalytics.GET("/metrics", analyticsHandler.GetMetricSeries)
				adminAnalytics.GET("/validation-outcomes", analyticsHandler.GetValidationOutcomes)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
