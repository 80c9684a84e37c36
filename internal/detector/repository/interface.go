package repository

import (
	"context"

	"alertfi-backend/internal/detector/domain"
)

// DetectorRepository is the detector registry
type DetectorRepository interface {
	Create(ctx context.Context, detector *domain.Detector) error
	// FindByID returns nil, nil when the detector does not exist
	FindByID(ctx context.Context, id string) (*domain.Detector, error)
	FindByIDForOwner(ctx context.Context, ownerID, id string) (*domain.Detector, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Detector, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Detector, int64, error)
	// Toggle flips sensor_on for an owned detector and returns the new value
	Toggle(ctx context.Context, ownerID, id string) (bool, error)
}

// ReadingRepository is the append-only reading store
type ReadingRepository interface {
	Create(ctx context.Context, reading *domain.Reading) error
	// Latest returns nil, nil when the detector has no readings
	Latest(ctx context.Context, detectorID string) (*domain.Reading, error)
	// History returns readings newest first. Empty statuses means all statuses.
	History(ctx context.Context, detectorID string, statuses []domain.Status, limit, offset int) ([]*domain.Reading, int64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Reading, error)
	DeleteForOwner(ctx context.Context, ownerID, readingID string) error
}
