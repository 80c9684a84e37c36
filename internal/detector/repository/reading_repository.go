package repository

import (
	"context"
	"errors"

	"alertfi-backend/internal/detector/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const newestFirst = "timestamp DESC"

type gormReadingRepository struct {
	db *gorm.DB
}

// NewGormReadingRepository creates a new GORM-based ReadingRepository
func NewGormReadingRepository(db *gorm.DB) ReadingRepository {
	return &gormReadingRepository{db: db}
}

// Create is a single INSERT; concurrent writers rely on the database for atomicity
func (r *gormReadingRepository) Create(ctx context.Context, reading *domain.Reading) error {
	if reading.ID == "" {
		reading.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(reading).Error
}

func (r *gormReadingRepository) Latest(ctx context.Context, detectorID string) (*domain.Reading, error) {
	var reading domain.Reading
	err := r.db.WithContext(ctx).
		Where("detector_id = ?", detectorID).
		Order(newestFirst).
		Take(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *gormReadingRepository) History(ctx context.Context, detectorID string, statuses []domain.Status, limit, offset int) ([]*domain.Reading, int64, error) {
	var readings []*domain.Reading
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Reading{}).Where("detector_id = ?", detectorID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order(newestFirst).Limit(limit).Offset(offset).Find(&readings).Error
	return readings, total, err
}

func (r *gormReadingRepository) Recent(ctx context.Context, limit int) ([]*domain.Reading, error) {
	var readings []*domain.Reading
	err := r.db.WithContext(ctx).Order(newestFirst).Limit(limit).Find(&readings).Error
	return readings, err
}

func (r *gormReadingRepository) DeleteForOwner(ctx context.Context, ownerID, readingID string) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&domain.Detector{}).Select("id").Where("user_id = ?", ownerID)
	result := db.
		Where("id = ? AND detector_id IN (?)", readingID, owned).
		Delete(&domain.Reading{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrReadingNotFound
	}
	return nil
}
