package delivery

import (
	"net/http"
	"strconv"

	authdelivery "alertfi-backend/internal/auth/delivery"
	"alertfi-backend/internal/detector/domain"
	"alertfi-backend/internal/detector/dto"
	"alertfi-backend/internal/detector/usecase"

	"github.com/gin-gonic/gin"
)

// DetectorHandler handles owner-scoped detector and reading requests
type DetectorHandler struct {
	detectorUsecase usecase.DetectorUsecase
}

// NewDetectorHandler creates a new DetectorHandler
func NewDetectorHandler(detectorUsecase usecase.DetectorUsecase) *DetectorHandler {
	return &DetectorHandler{
		detectorUsecase: detectorUsecase,
	}
}

// GetDetectors returns the caller's detectors
// GET /api/detectors
func (h *DetectorHandler) GetDetectors(c *gin.Context) {
	userID := c.GetString(authdelivery.ContextUserIDKey)

	detectors, err := h.detectorUsecase.ListDetectors(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}
	if detectors == nil {
		detectors = []*domain.Detector{}
	}

	c.JSON(http.StatusOK, gin.H{"detectors": detectors})
}

// CreateDetector registers a detector for the caller
// POST /api/detectors
func (h *DetectorHandler) CreateDetector(c *gin.Context) {
	userID := c.GetString(authdelivery.ContextUserIDKey)

	var req dto.CreateDetectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": err.Error()})
		return
	}

	detector, err := h.detectorUsecase.CreateDetector(c.Request.Context(), userID, &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detector)
}

// GetDetector
// GET /api/detectors/:id
func (h *DetectorHandler) GetDetector(c *gin.Context) {
	userID := c.GetString(authdelivery.ContextUserIDKey)

	detector, err := h.detectorUsecase.GetDetector(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, detector)
}

// ToggleSensor flips sensor_on
// PATCH /api/detectors/:id/toggle
func (h *DetectorHandler) ToggleSensor(c *gin.Context) {
	userID := c.GetString(authdelivery.ContextUserIDKey)
	detectorID := c.Param("id")

	on, err := h.detectorUsecase.ToggleSensor(c.Request.Context(), userID, detectorID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleResponse{ID: detectorID, SensorOn: on})
}

// GetLatestReading
// GET /api/detectors/:id/latest
func (h *DetectorHandler) GetLatestReading(c *gin.Context) {
	userID := c.GetString(authdelivery.ContextUserIDKey)

	reading, err := h.detectorUsecase.LatestReading(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

// GetHistory returns alert history, WARNING and DANGER unless ?status= says otherwise
// GET /api/detectors/:id/history?status=WARNING,DANGER&limit=50&offset=0
func (h *DetectorHandler) GetHistory(c *gin.Context) {
	statuses := domain.AlertStatuses()
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseStatuses(raw)
		if err != nil {
			WriteError(c, err)
			return
		}
		if len(parsed) > 0 {
			statuses = parsed
		}
	}

	h.listReadings(c, statuses)
}

// GetReadings returns full telemetry for a detector
// GET /api/detectors/:id/readings?limit=50&offset=0
func (h *DetectorHandler) GetReadings(c *gin.Context) {
	h.listReadings(c, nil)
}

func (h *DetectorHandler) listReadings(c *gin.Context, statuses []domain.Status) {
	userID := c.GetString(authdelivery.ContextUserIDKey)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	readings, total, err := h.detectorUsecase.History(c.Request.Context(), userID, c.Param("id"), statuses, limit, offset)
	if err != nil {
		WriteError(c, err)
		return
	}
	if readings == nil {
		readings = []*domain.Reading{}
	}

	c.JSON(http.StatusOK, gin.H{
		"readings": readings,
		"total":    total,
	})
}

// DeleteReading removes one of the caller's readings
// DELETE /api/readings/:id
func (h *DetectorHandler) DeleteReading(c *gin.Context) {
	userID := c.GetString(authdelivery.ContextUserIDKey)

	if err := h.detectorUsecase.DeleteReading(c.Request.Context(), userID, c.Param("id")); err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reading deleted"})
}
