package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alertfi-backend/internal/detector/domain"
	"alertfi-backend/internal/detector/dto"
	"alertfi-backend/internal/detector/repository"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

type detectorUsecase struct {
	detectorRepo repository.DetectorRepository
	readingRepo  repository.ReadingRepository
}

// NewDetectorUsecase creates a new instance of detectorUsecase
func NewDetectorUsecase(detectorRepo repository.DetectorRepository, readingRepo repository.ReadingRepository) DetectorUsecase {
	return &detectorUsecase{
		detectorRepo: detectorRepo,
		readingRepo:  readingRepo,
	}
}

func (u *detectorUsecase) CreateDetector(ctx context.Context, ownerID string, req *dto.CreateDetectorRequest) (*domain.Detector, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	detector := &domain.Detector{
		UserID:       ownerID,
		Name:         name,
		Location:     strings.TrimSpace(req.Location),
		SensorOn:     true,
		WifiSSID:     req.WifiSSID,
		WifiPassword: req.WifiPassword,
	}
	if err := u.detectorRepo.Create(ctx, detector); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return detector, nil
}

func (u *detectorUsecase) ListDetectors(ctx context.Context, ownerID string) ([]*domain.Detector, error) {
	detectors, err := u.detectorRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return detectors, nil
}

func (u *detectorUsecase) GetDetector(ctx context.Context, ownerID, detectorID string) (*domain.Detector, error) {
	detector, err := u.detectorRepo.FindByIDForOwner(ctx, ownerID, detectorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if detector == nil {
		return nil, domain.ErrDetectorNotFound
	}
	return detector, nil
}

func (u *detectorUsecase) ToggleSensor(ctx context.Context, ownerID, detectorID string) (bool, error) {
	on, err := u.detectorRepo.Toggle(ctx, ownerID, detectorID)
	if err != nil {
		if errors.Is(err, domain.ErrDetectorNotFound) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return on, nil
}

func (u *detectorUsecase) LatestReading(ctx context.Context, ownerID, detectorID string) (*domain.Reading, error) {
	if _, err := u.GetDetector(ctx, ownerID, detectorID); err != nil {
		return nil, err
	}

	reading, err := u.readingRepo.Latest(ctx, detectorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if reading == nil {
		return nil, domain.ErrReadingNotFound
	}
	return reading, nil
}

// History pages through a detector's readings, newest first. Nil statuses returns every reading.
func (u *detectorUsecase) History(ctx context.Context, ownerID, detectorID string, statuses []domain.Status, limit, offset int) ([]*domain.Reading, int64, error) {
	if _, err := u.GetDetector(ctx, ownerID, detectorID); err != nil {
		return nil, 0, err
	}

	limit, offset = NormalizePage(limit, offset)
	readings, total, err := u.readingRepo.History(ctx, detectorID, statuses, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return readings, total, nil
}

func (u *detectorUsecase) DeleteReading(ctx context.Context, ownerID, readingID string) error {
	err := u.readingRepo.DeleteForOwner(ctx, ownerID, readingID)
	if err != nil && !errors.Is(err, domain.ErrReadingNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return err
}

// NormalizePage clamps limit to (0, MaxPageSize] and offset to >= 0
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
