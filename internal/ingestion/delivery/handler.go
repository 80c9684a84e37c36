package delivery

import (
	"net/http"

	detectordelivery "alertfi-backend/internal/detector/delivery"
	"alertfi-backend/internal/ingestion/dto"
	"alertfi-backend/internal/ingestion/usecase"

	"github.com/gin-gonic/gin"
)

// IngestionHandler accepts telemetry from detectors. Unauthenticated.
type IngestionHandler struct {
	ingestionUsecase usecase.IngestionUsecase
}

func NewIngestionHandler(ingestionUsecase usecase.IngestionUsecase) *IngestionHandler {
	return &IngestionHandler{
		ingestionUsecase: ingestionUsecase,
	}
}

// ReceiveData stores one reading and alerts the owner on DANGER
// POST /api/esp32/data
func (h *IngestionHandler) ReceiveData(c *gin.Context) {
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": err.Error()})
		return
	}

	reading, err := h.ingestionUsecase.Ingest(c.Request.Context(), &req)
	if err != nil {
		detectordelivery.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Data received",
		"reading": reading,
	})
}
