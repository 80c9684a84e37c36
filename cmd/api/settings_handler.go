package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RuntimeConfig holds runtime-configurable settings
type RuntimeConfig struct {
	AlertCooldown time.Duration
}

var (
	runtimeConfig     RuntimeConfig
	runtimeConfigLock sync.RWMutex
)

// InitRuntimeConfig initializes runtime config from static config
func InitRuntimeConfig(alertCooldown time.Duration) {
	runtimeConfigLock.Lock()
	defer runtimeConfigLock.Unlock()
	runtimeConfig = RuntimeConfig{
		AlertCooldown: alertCooldown,
	}
}

// GetRuntimeAlertCooldown returns the current per-detector alert cooldown. Zero disables it.
func GetRuntimeAlertCooldown() time.Duration {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()
	return runtimeConfig.AlertCooldown
}

type UpdateAlertSettingsRequest struct {
	AlertCooldownSeconds *int `json:"alert_cooldown_seconds" binding:"required,min=0,max=86400"`
}

// GetAlertSettings
// GET /api/admin/settings/alerts
func GetAlertSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alert_cooldown_seconds": int(GetRuntimeAlertCooldown() / time.Second),
	})
}

// UpdateAlertSettings changes the alert cooldown without a restart
// PUT /api/admin/settings/alerts
func UpdateAlertSettings(c *gin.Context) {
	var req UpdateAlertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": err.Error()})
		return
	}

	cooldown := time.Duration(*req.AlertCooldownSeconds) * time.Second
	runtimeConfigLock.Lock()
	runtimeConfig.AlertCooldown = cooldown
	runtimeConfigLock.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":                "Alert settings updated successfully",
		"alert_cooldown_seconds": *req.AlertCooldownSeconds,
	})
}
