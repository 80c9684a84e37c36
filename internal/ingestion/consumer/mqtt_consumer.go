package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"alertfi-backend/internal/ingestion/dto"
	"alertfi-backend/internal/ingestion/usecase"

	"go.uber.org/zap"
)

const handleTimeout = 30 * time.Second

// MQTTConsumer feeds detector messages from the broker into the ingestion pipeline
type MQTTConsumer struct {
	ingestionUsecase usecase.IngestionUsecase
	logger           *zap.Logger
}

func NewMQTTConsumer(ingestionUsecase usecase.IngestionUsecase, logger *zap.Logger) *MQTTConsumer {
	return &MQTTConsumer{
		ingestionUsecase: ingestionUsecase,
		logger:           logger,
	}
}

// HandleMessage has the signature of mqtt.MessageHandler.
// Topic form: alertfi/detectors/<detector_id>/readings
func (c *MQTTConsumer) HandleMessage(topic string, payload []byte) error {
	var req dto.IngestRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid payload on %s: %w", topic, err)
	}
	if req.DetectorID == "" {
		req.DetectorID = DetectorIDFromTopic(topic)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	reading, err := c.ingestionUsecase.Ingest(ctx, &req)
	if err != nil {
		return err
	}

	c.logger.Debug("MQTT reading ingested",
		zap.String("topic", topic),
		zap.String("reading_id", reading.ID),
		zap.String("status", string(reading.Status)),
	)
	return nil
}

// DetectorIDFromTopic returns the segment after "detectors", or "" if absent
func DetectorIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "detectors" {
			return parts[i+1]
		}
	}
	return ""
}
