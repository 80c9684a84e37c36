package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	authdomain "alertfi-backend/internal/auth/domain"
	"alertfi-backend/internal/detector/domain"
	"alertfi-backend/internal/ingestion/dto"
	"alertfi-backend/internal/notification"
	"alertfi-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu      sync.Mutex
	tokens  []string
	failing map[string]bool
}

func (n *recordingNotifier) Send(_ context.Context, token, _, _ string, _ map[string]string) error {
	if n.failing[token] {
		return errors.New("messaging/registration-token-not-registered")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens = append(n.tokens, token)
	return nil
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.tokens...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return p.err
}

type failingGate struct{}

func (failingGate) Evaluate(context.Context, *domain.Reading, *domain.Detector) (int, error) {
	return 0, errors.New("owner lookup failed")
}

type harness struct {
	pipeline  *Pipeline
	users     *testutil.UserStore
	tokens    *testutil.TokenStore
	detectors *testutil.DetectorStore
	readings  *testutil.ReadingStore
	notifier  *recordingNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	users := testutil.NewUserStore(&authdomain.User{
		ID:                   "owner-1",
		Email:                "owner@example.com",
		NotificationsEnabled: true,
	})
	tokens := testutil.NewTokenStore()
	detectors := testutil.NewDetectorStore(&domain.Detector{
		ID:       "D1",
		UserID:   "owner-1",
		Name:     "Kitchen",
		SensorOn: true,
	})
	readings := testutil.NewReadingStore(detectors)
	notifier := &recordingNotifier{failing: map[string]bool{}}
	gate := notification.NewGate(users, tokens, notifier, zap.NewNop())

	return &harness{
		pipeline:  NewIngestionUsecase(detectors, readings, gate, zap.NewNop()),
		users:     users,
		tokens:    tokens,
		detectors: detectors,
		readings:  readings,
		notifier:  notifier,
	}
}

func (h *harness) addToken(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, h.tokens.SaveToken(context.Background(), "owner-1", token, ""))
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestIngest_DangerNotifiesOwnerToken(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T")

	reading, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{
		DetectorID: "D1",
		PPM:        intPtr(2500),
		Battery:    intPtr(80),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDanger, reading.Status)
	assert.Equal(t, 80, reading.Battery)
	assert.Equal(t, 1, h.readings.Count())
	assert.Equal(t, []string{"T"}, h.notifier.sent())
}

func TestIngest_NotificationsDisabledSendsNothing(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T")
	h.users.Users["owner-1"].NotificationsEnabled = false

	reading, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(2500)})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDanger, reading.Status)
	assert.Equal(t, 1, h.readings.Count())
	assert.Empty(t, h.notifier.sent())
}

func TestIngest_SafeReadingSendsNothing(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T")

	reading, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(500)})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSafe, reading.Status)
	assert.Equal(t, domain.DefaultBattery, reading.Battery)
	assert.Empty(t, h.notifier.sent())
}

func TestIngest_FailingTokenStillDeliversToOthers(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T1")
	h.addToken(t, "T2")
	h.notifier.failing["T1"] = true

	_, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(3000)})

	require.NoError(t, err)
	assert.Equal(t, []string{"T2"}, h.notifier.sent())
	assert.Equal(t, 1, h.readings.Count())
}

func TestIngest_UnknownDetectorPersistsNothing(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T")

	_, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "nope", PPM: intPtr(2500)})

	assert.ErrorIs(t, err, domain.ErrDetectorNotFound)
	assert.Zero(t, h.readings.Count())
	assert.Empty(t, h.notifier.sent())
}

func TestIngest_DeviceStatusIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T")

	reading, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{
		DetectorID: "D1",
		PPM:        intPtr(2500),
		Status:     "SAFE",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDanger, reading.Status)
	assert.Equal(t, []string{"T"}, h.notifier.sent())
}

func TestIngest_DuplicatePayloadCreatesTwoReadings(t *testing.T) {
	h := newHarness(t)
	req := &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(1500)}

	first, err := h.pipeline.Ingest(context.Background(), req)
	require.NoError(t, err)
	second, err := h.pipeline.Ingest(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, h.readings.Count())
}

func TestIngest_HistoryExcludesSafe(t *testing.T) {
	h := newHarness(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	h.pipeline.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	for _, ppm := range []int{500, 1500, 2500, 800} {
		_, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(ppm)})
		require.NoError(t, err)
	}

	history, total, err := h.readings.History(context.Background(), "D1", domain.AlertStatuses(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, history, 2)
	assert.Equal(t, 2500, history[0].PPM)
	assert.Equal(t, 1500, history[1].PPM)
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.IngestRequest
	}{
		{"nil request", nil},
		{"missing detector", &dto.IngestRequest{PPM: intPtr(10)}},
		{"missing ppm", &dto.IngestRequest{DetectorID: "D1"}},
		{"blank detector", &dto.IngestRequest{DetectorID: "  ", PPM: intPtr(10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.pipeline.Ingest(context.Background(), tt.req)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, h.readings.Count())
		})
	}
}

func TestIngest_OutOfRangeOptionalValuesStillAlert(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.IngestRequest
	}{
		{"battery above range", &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(5000), Battery: intPtr(101)}},
		{"battery below range", &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(5000), Battery: intPtr(-1)}},
		{"humidity out of range", &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(5000), Humidity: floatPtr(100.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.addToken(t, "T")

			reading, err := h.pipeline.Ingest(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Equal(t, domain.StatusDanger, reading.Status)
			if tt.req.Battery != nil {
				assert.Equal(t, *tt.req.Battery, reading.Battery)
			}
			if tt.req.Humidity != nil {
				require.NotNil(t, reading.Humidity)
				assert.Equal(t, *tt.req.Humidity, *reading.Humidity)
			}
			assert.Equal(t, 1, h.readings.Count())
			assert.Equal(t, []string{"T"}, h.notifier.sent())
		})
	}
}

func TestIngest_PersistenceFailureSkipsNotification(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T")
	h.readings.CreateErr = errors.New("disk full")

	_, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(2500)})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, h.notifier.sent())
}

func TestIngest_RegistryFailure(t *testing.T) {
	h := newHarness(t)
	h.detectors.FindErr = errors.New("connection refused")

	_, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(2500)})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Zero(t, h.readings.Count())
}

func TestIngest_GateErrorIsSwallowed(t *testing.T) {
	h := newHarness(t)
	p := NewIngestionUsecase(h.detectors, h.readings, failingGate{}, zap.NewNop())

	reading, err := p.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(2500)})

	require.NoError(t, err)
	assert.NotNil(t, reading)
	assert.Equal(t, 1, h.readings.Count())
}

func TestIngest_CancelledCallerStillNotifies(t *testing.T) {
	h := newHarness(t)
	h.addToken(t, "T")
	ctx, cancel := context.WithCancel(context.Background())

	gate := notification.NewGate(h.users, h.tokens, &cancelOnSend{inner: h.notifier}, zap.NewNop())
	p := NewIngestionUsecase(h.detectors, h.readings, gate, zap.NewNop())
	cancel()

	_, err := p.Ingest(ctx, &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(2500)})

	require.NoError(t, err)
	assert.Equal(t, []string{"T"}, h.notifier.sent())
}

// cancelOnSend fails if the context it receives is already done
type cancelOnSend struct {
	inner *recordingNotifier
}

func (c *cancelOnSend) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.inner.Send(ctx, token, title, body, data)
}

func TestIngest_PublishesReadingEvent(t *testing.T) {
	h := newHarness(t)
	publisher := &recordingPublisher{err: errors.New("pubsub unavailable")}
	h.pipeline.SetEventPublisher(publisher)

	_, err := h.pipeline.Ingest(context.Background(), &dto.IngestRequest{DetectorID: "D1", PPM: intPtr(700)})

	require.NoError(t, err)
	assert.Equal(t, []string{EventReadingCreated}, publisher.events)
}
