package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alertfi-backend/internal/detector/domain"
	"alertfi-backend/internal/detector/repository"
	"alertfi-backend/internal/ingestion/dto"

	"go.uber.org/zap"
)

const (
	defaultGateTimeout    = 15 * time.Second
	defaultPublishTimeout = 5 * time.Second
)

// Pipeline implements IngestionUsecase
type Pipeline struct {
	detectorRepo repository.DetectorRepository
	readingRepo  repository.ReadingRepository
	gate         AlertGate
	publisher    EventPublisher
	logger       *zap.Logger
	gateTimeout  time.Duration
	now          func() time.Time
}

// NewIngestionUsecase creates the ingestion pipeline. gate may be nil.
func NewIngestionUsecase(detectorRepo repository.DetectorRepository, readingRepo repository.ReadingRepository, gate AlertGate, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		detectorRepo: detectorRepo,
		readingRepo:  readingRepo,
		gate:         gate,
		logger:       logger,
		gateTimeout:  defaultGateTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (p *Pipeline) SetEventPublisher(publisher EventPublisher) {
	p.publisher = publisher
}

// SetGateTimeout bounds the whole notification step, independent of the caller's context
func (p *Pipeline) SetGateTimeout(d time.Duration) {
	if d > 0 {
		p.gateTimeout = d
	}
}

func (p *Pipeline) Ingest(ctx context.Context, req *dto.IngestRequest) (*domain.Reading, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	detectorID := strings.TrimSpace(req.DetectorID)

	detector, err := p.detectorRepo.FindByID(ctx, detectorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if detector == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDetectorNotFound, detectorID)
	}

	battery := domain.DefaultBattery
	if req.Battery != nil {
		battery = *req.Battery
	}

	reading := &domain.Reading{
		DetectorID:  detector.ID,
		PPM:         *req.PPM,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Battery:     battery,
		Status:      domain.Classify(*req.PPM),
		Timestamp:   p.now(),
	}
	if err := p.readingRepo.Create(ctx, reading); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	if req.Status != "" && !strings.EqualFold(req.Status, string(reading.Status)) {
		p.logger.Debug("Device status differs from server classification",
			zap.String("detector_id", detector.ID),
			zap.String("device_status", req.Status),
			zap.String("status", string(reading.Status)),
		)
	}

	p.notify(ctx, reading, detector)
	p.publish(ctx, reading)

	return reading, nil
}

func (p *Pipeline) notify(ctx context.Context, reading *domain.Reading, detector *domain.Detector) {
	if p.gate == nil {
		return
	}

	gateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.gateTimeout)
	defer cancel()

	sent, err := p.gate.Evaluate(gateCtx, reading, detector)
	if err != nil {
		p.logger.Error("Notification gate failed",
			zap.String("detector_id", detector.ID),
			zap.String("reading_id", reading.ID),
			zap.Error(err),
		)
		return
	}
	if sent > 0 {
		p.logger.Info("Alert notifications sent",
			zap.String("reading_id", reading.ID),
			zap.Int("sent", sent),
		)
	}
}

func (p *Pipeline) publish(ctx context.Context, reading *domain.Reading) {
	if p.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultPublishTimeout)
	defer cancel()

	if err := p.publisher.Publish(pubCtx, EventReadingCreated, reading); err != nil {
		p.logger.Warn("Failed to publish reading event",
			zap.String("reading_id", reading.ID),
			zap.Error(err),
		)
	}
}

// validate checks required fields only. Optional sensor values are stored as sent.
func validate(req *dto.IngestRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty payload", domain.ErrValidation)
	}
	if strings.TrimSpace(req.DetectorID) == "" {
		return fmt.Errorf("%w: detector_id is required", domain.ErrValidation)
	}
	if req.PPM == nil {
		return fmt.Errorf("%w: ppm is required", domain.ErrValidation)
	}
	return nil
}
