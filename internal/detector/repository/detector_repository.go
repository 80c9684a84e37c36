package repository

import (
	"context"
	"errors"
	"time"

	"alertfi-backend/internal/detector/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormDetectorRepository struct {
	db *gorm.DB
}

// NewGormDetectorRepository creates a new GORM-based DetectorRepository
func NewGormDetectorRepository(db *gorm.DB) DetectorRepository {
	return &gormDetectorRepository{db: db}
}

func (r *gormDetectorRepository) Create(ctx context.Context, detector *domain.Detector) error {
	if detector.ID == "" {
		detector.ID = uuid.New().String()
	}
	detector.CreatedAt = time.Now()
	detector.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(detector).Error
}

func (r *gormDetectorRepository) FindByID(ctx context.Context, id string) (*domain.Detector, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormDetectorRepository) FindByIDForOwner(ctx context.Context, ownerID, id string) (*domain.Detector, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID))
}

func (r *gormDetectorRepository) first(query *gorm.DB) (*domain.Detector, error) {
	var detector domain.Detector
	err := query.Take(&detector).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detector, nil
}

func (r *gormDetectorRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Detector, error) {
	var detectors []*domain.Detector
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("created_at ASC").Find(&detectors).Error
	return detectors, err
}

func (r *gormDetectorRepository) List(ctx context.Context, limit, offset int) ([]*domain.Detector, int64, error) {
	var detectors []*domain.Detector
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Detector{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&detectors).Error
	return detectors, total, err
}

func (r *gormDetectorRepository) Toggle(ctx context.Context, ownerID, id string) (bool, error) {
	var detector domain.Detector
	result := r.db.WithContext(ctx).Model(&detector).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "sensor_on"}}}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(map[string]interface{}{
			"sensor_on":  gorm.Expr("NOT sensor_on"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, domain.ErrDetectorNotFound
	}
	return detector.SensorOn, nil
}
