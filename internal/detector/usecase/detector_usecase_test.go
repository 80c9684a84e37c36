package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"alertfi-backend/internal/detector/domain"
	"alertfi-backend/internal/detector/dto"
	"alertfi-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsecase(t *testing.T) (DetectorUsecase, *testutil.DetectorStore, *testutil.ReadingStore) {
	t.Helper()
	detectors := testutil.NewDetectorStore(
		&domain.Detector{ID: "det-1", UserID: "alice", Name: "Kitchen", SensorOn: true},
		&domain.Detector{ID: "det-2", UserID: "bob", Name: "Garage", SensorOn: true},
	)
	readings := testutil.NewReadingStore(detectors)
	return NewDetectorUsecase(detectors, readings), detectors, readings
}

func seedReading(t *testing.T, store *testutil.ReadingStore, id, detectorID string, ppm int, at time.Time) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &domain.Reading{
		ID:         id,
		DetectorID: detectorID,
		PPM:        ppm,
		Battery:    domain.DefaultBattery,
		Status:     domain.Classify(ppm),
		Timestamp:  at,
	}))
}

func TestCreateDetector_DefaultsSensorOn(t *testing.T) {
	uc, detectors, _ := newTestUsecase(t)

	detector, err := uc.CreateDetector(context.Background(), "alice", &dto.CreateDetectorRequest{
		Name:     "  Bedroom ",
		Location: "First floor",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, detector.ID)
	assert.Equal(t, "Bedroom", detector.Name)
	assert.Equal(t, "alice", detector.UserID)
	assert.True(t, detector.SensorOn)
	assert.Contains(t, detectors.Detectors, detector.ID)
}

func TestCreateDetector_BlankName(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.CreateDetector(context.Background(), "alice", &dto.CreateDetectorRequest{Name: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetDetector_OtherOwnerIsNotFound(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.GetDetector(context.Background(), "alice", "det-2")

	assert.ErrorIs(t, err, domain.ErrDetectorNotFound)
}

func TestGetDetector_LookupFailure(t *testing.T) {
	uc, detectors, _ := newTestUsecase(t)
	detectors.FindErr = errors.New("connection reset")

	_, err := uc.GetDetector(context.Background(), "alice", "det-1")

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestToggleSensor_FlipsTwice(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	ctx := context.Background()

	on, err := uc.ToggleSensor(ctx, "alice", "det-1")
	require.NoError(t, err)
	assert.False(t, on)

	on, err = uc.ToggleSensor(ctx, "alice", "det-1")
	require.NoError(t, err)
	assert.True(t, on)
}

func TestToggleSensor_NotOwner(t *testing.T) {
	uc, detectors, _ := newTestUsecase(t)

	_, err := uc.ToggleSensor(context.Background(), "alice", "det-2")

	assert.ErrorIs(t, err, domain.ErrDetectorNotFound)
	assert.True(t, detectors.Detectors["det-2"].SensorOn)
}

func TestLatestReading(t *testing.T) {
	uc, _, readings := newTestUsecase(t)
	now := time.Now().UTC()
	seedReading(t, readings, "r-old", "det-1", 400, now.Add(-time.Minute))
	seedReading(t, readings, "r-new", "det-1", 1800, now)

	reading, err := uc.LatestReading(context.Background(), "alice", "det-1")

	require.NoError(t, err)
	assert.Equal(t, "r-new", reading.ID)
	assert.Equal(t, domain.StatusWarning, reading.Status)
}

func TestLatestReading_NoReadings(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.LatestReading(context.Background(), "alice", "det-1")

	assert.ErrorIs(t, err, domain.ErrReadingNotFound)
}

func TestHistory_AlertStatusesExcludeSafe(t *testing.T) {
	uc, _, readings := newTestUsecase(t)
	now := time.Now().UTC()
	seedReading(t, readings, "r-1", "det-1", 300, now.Add(-3*time.Minute))
	seedReading(t, readings, "r-2", "det-1", 1500, now.Add(-2*time.Minute))
	seedReading(t, readings, "r-3", "det-1", 2500, now.Add(-time.Minute))
	seedReading(t, readings, "r-4", "det-1", 900, now)

	got, total, err := uc.History(context.Background(), "alice", "det-1", domain.AlertStatuses(), 0, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, "r-3", got[0].ID)
	assert.Equal(t, "r-2", got[1].ID)
	for _, r := range got {
		assert.NotEqual(t, domain.StatusSafe, r.Status)
	}
}

func TestHistory_AllStatusesPaged(t *testing.T) {
	uc, _, readings := newTestUsecase(t)
	now := time.Now().UTC()
	for i, ppm := range []int{100, 1100, 2100} {
		seedReading(t, readings, string(rune('a'+i)), "det-1", ppm, now.Add(time.Duration(i)*time.Second))
	}

	got, total, err := uc.History(context.Background(), "alice", "det-1", nil, 2, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestDeleteReading_OwnerScoped(t *testing.T) {
	uc, _, readings := newTestUsecase(t)
	seedReading(t, readings, "r-1", "det-1", 2500, time.Now())

	err := uc.DeleteReading(context.Background(), "bob", "r-1")
	assert.ErrorIs(t, err, domain.ErrReadingNotFound)
	assert.Equal(t, 1, readings.Count())

	err = uc.DeleteReading(context.Background(), "alice", "r-1")
	require.NoError(t, err)
	assert.Zero(t, readings.Count())
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name           string
		limit, offset  int
		wantL, wantOff int
	}{
		{"defaults", 0, 0, DefaultPageSize, 0},
		{"negative offset", 10, -5, 10, 0},
		{"capped", 5000, 20, MaxPageSize, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := NormalizePage(tt.limit, tt.offset)
			assert.Equal(t, tt.wantL, l)
			assert.Equal(t, tt.wantOff, o)
		})
	}
}
