package api

import (
	"net/http"

	"alertfi-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authRequired := delivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Device telemetry (no auth, detectors are identified by id only)
		api.POST("/esp32/data", h.ingestionHandler.ReceiveData)
		api.POST("/readings/ingest", h.ingestionHandler.ReceiveData)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/refresh", h.authHandler.RefreshToken)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", authRequired, h.authHandler.Me)
			auth.PUT("/email", authRequired, h.authHandler.UpdateEmail)
			auth.PUT("/password", authRequired, h.authHandler.ChangePassword)
			auth.PATCH("/notifications", authRequired, h.authHandler.ToggleNotifications)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(authRequired)
		{
			fcm.POST("/register", h.authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", h.authHandler.UnregisterFCMToken)
		}

		// Detector routes (protected, owner scoped)
		detectors := api.Group("/detectors")
		detectors.Use(authRequired)
		{
			detectors.GET("", h.detectorHandler.GetDetectors)
			detectors.POST("", h.detectorHandler.CreateDetector)
			detectors.GET("/:id", h.detectorHandler.GetDetector)
			detectors.GET("/:id/latest", h.detectorHandler.GetLatestReading)
			detectors.GET("/:id/history", h.detectorHandler.GetHistory)
			detectors.GET("/:id/readings", h.detectorHandler.GetReadings)
			detectors.PATCH("/:id/toggle", h.detectorHandler.ToggleSensor)
		}

		api.DELETE("/readings/:id", authRequired, h.detectorHandler.DeleteReading)

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(authRequired, delivery.AdminMiddleware())
		{
			admin.GET("/users", h.adminHandler.GetUsers)
			admin.GET("/detectors", h.adminHandler.GetDetectors)
			admin.GET("/readings", h.adminHandler.GetReadings)
			admin.GET("/settings/alerts", GetAlertSettings)
			admin.PUT("/settings/alerts", UpdateAlertSettings)
		}
	}
}
