package usecase

import (
	"context"

	"alertfi-backend/internal/detector/domain"
	"alertfi-backend/internal/ingestion/dto"
)

const EventReadingCreated = "reading.created"

// IngestionUsecase turns one telemetry payload into one stored reading
type IngestionUsecase interface {
	Ingest(ctx context.Context, req *dto.IngestRequest) (*domain.Reading, error)
}

// AlertGate is satisfied by notification.Gate
type AlertGate interface {
	Evaluate(ctx context.Context, reading *domain.Reading, detector *domain.Detector) (int, error)
}

// EventPublisher is satisfied by pubsub.Publisher
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
