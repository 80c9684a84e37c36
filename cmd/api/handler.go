package api

import (
	"net/http"

	adminDelivery "alertfi-backend/internal/admin/delivery"
	adminUsecase "alertfi-backend/internal/admin/usecase"
	authDelivery "alertfi-backend/internal/auth/delivery"
	authUsecase "alertfi-backend/internal/auth/usecase"
	detectorDelivery "alertfi-backend/internal/detector/delivery"
	detectorUsecase "alertfi-backend/internal/detector/usecase"
	ingestionDelivery "alertfi-backend/internal/ingestion/delivery"
	ingestionUsecase "alertfi-backend/internal/ingestion/usecase"
	"alertfi-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	authUsecase      authUsecase.AuthUsecase
	authHandler      *authDelivery.AuthHandler
	detectorHandler  *detectorDelivery.DetectorHandler
	ingestionHandler *ingestionDelivery.IngestionHandler
	adminHandler     *adminDelivery.AdminHandler
	config           *config.Config
	logger           *zap.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, detectorUc detectorUsecase.DetectorUsecase, ingestionUc ingestionUsecase.IngestionUsecase, adminUc adminUsecase.AdminUsecase, cfg *config.Config, logger *zap.Logger) *Handler {
	// Initialize runtime config for settings API
	InitRuntimeConfig(cfg.AlertCooldown)

	return &Handler{
		authUsecase:      authUc,
		authHandler:      authDelivery.NewAuthHandler(authUc),
		detectorHandler:  detectorDelivery.NewDetectorHandler(detectorUc),
		ingestionHandler: ingestionDelivery.NewIngestionHandler(ingestionUc),
		adminHandler:     adminDelivery.NewAdminHandler(adminUc),
		config:           cfg,
		logger:           logger,
	}
}

// Engine builds the gin router with CORS and every route registered
func (h *Handler) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)
	return r
}
