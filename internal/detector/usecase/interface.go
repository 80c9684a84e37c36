package usecase

import (
	"context"

	"alertfi-backend/internal/detector/domain"
	"alertfi-backend/internal/detector/dto"
)

// DetectorUsecase exposes owner-scoped detector and reading queries.
// Detectors owned by someone else are reported as ErrDetectorNotFound.
type DetectorUsecase interface {
	CreateDetector(ctx context.Context, ownerID string, req *dto.CreateDetectorRequest) (*domain.Detector, error)
	ListDetectors(ctx context.Context, ownerID string) ([]*domain.Detector, error)
	GetDetector(ctx context.Context, ownerID, detectorID string) (*domain.Detector, error)
	ToggleSensor(ctx context.Context, ownerID, detectorID string) (bool, error)

	LatestReading(ctx context.Context, ownerID, detectorID string) (*domain.Reading, error)
	History(ctx context.Context, ownerID, detectorID string, statuses []domain.Status, limit, offset int) ([]*domain.Reading, int64, error)
	DeleteReading(ctx context.Context, ownerID, readingID string) error
}
