package usecase

import (
	"context"
	"fmt"

	authdomain "alertfi-backend/internal/auth/domain"
	authrepo "alertfi-backend/internal/auth/repository"
	"alertfi-backend/internal/detector/domain"
	detectorrepo "alertfi-backend/internal/detector/repository"
)

const (
	DefaultRecentReadings = 100
	MaxRecentReadings     = 1000
	defaultPageSize       = 50
	maxPageSize           = 500
)

// AdminUsecase exposes cross-tenant read-only views
type AdminUsecase interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*authdomain.User, int64, error)
	ListDetectors(ctx context.Context, limit, offset int) ([]*domain.Detector, int64, error)
	RecentReadings(ctx context.Context, limit int) ([]*domain.Reading, error)
}

type adminUsecase struct {
	userRepo     authrepo.UserRepository
	detectorRepo detectorrepo.DetectorRepository
	readingRepo  detectorrepo.ReadingRepository
}

func NewAdminUsecase(userRepo authrepo.UserRepository, detectorRepo detectorrepo.DetectorRepository, readingRepo detectorrepo.ReadingRepository) AdminUsecase {
	return &adminUsecase{
		userRepo:     userRepo,
		detectorRepo: detectorRepo,
		readingRepo:  readingRepo,
	}
}

func (u *adminUsecase) ListUsers(ctx context.Context, limit, offset int) ([]*authdomain.User, int64, error) {
	limit, offset = clampPage(limit, offset)
	users, total, err := u.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return users, total, nil
}

func (u *adminUsecase) ListDetectors(ctx context.Context, limit, offset int) ([]*domain.Detector, int64, error) {
	limit, offset = clampPage(limit, offset)
	detectors, total, err := u.detectorRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return detectors, total, nil
}

// RecentReadings returns the newest readings across all detectors
func (u *adminUsecase) RecentReadings(ctx context.Context, limit int) ([]*domain.Reading, error) {
	if limit <= 0 {
		limit = DefaultRecentReadings
	}
	if limit > MaxRecentReadings {
		limit = MaxRecentReadings
	}

	readings, err := u.readingRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return readings, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
