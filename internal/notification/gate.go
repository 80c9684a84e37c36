package notification

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"sync/atomic"
	"time"

	authdomain "alertfi-backend/internal/auth/domain"
	authrepo "alertfi-backend/internal/auth/repository"
	"alertfi-backend/internal/detector/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSendTimeout = 10 * time.Second
	DefaultConcurrency = 4
)

var ErrNotifierFailure = errors.New("notifier failure")

// Notifier delivers one push message to one device token. data travels as the
// message's key/value payload and may be nil.
type Notifier interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// AlertMailer delivers one HTML email
type AlertMailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Gate decides whether a reading raises a push alert and fans it out to
// every token of the detector's owner.
type Gate struct {
	userRepo    authrepo.UserRepository
	fcmRepo     authrepo.FCMTokenRepository
	notifier    Notifier
	logger      *zap.Logger
	sendTimeout time.Duration
	concurrency int

	cooldown       Cooldown
	cooldownWindow func() time.Duration
	mailer         AlertMailer
}

func NewGate(userRepo authrepo.UserRepository, fcmRepo authrepo.FCMTokenRepository, notifier Notifier, logger *zap.Logger) *Gate {
	if notifier == nil {
		notifier = NewNopNotifier(logger)
	}
	return &Gate{
		userRepo:    userRepo,
		fcmRepo:     fcmRepo,
		notifier:    notifier,
		logger:      logger,
		sendTimeout: DefaultSendTimeout,
		concurrency: DefaultConcurrency,
	}
}

func (g *Gate) SetSendTimeout(d time.Duration) {
	if d > 0 {
		g.sendTimeout = d
	}
}

func (g *Gate) SetConcurrency(n int) {
	if n > 0 {
		g.concurrency = n
	}
}

// SetCooldown enables per-detector alert suppression. window is read on every
// evaluation so it can change at runtime; a window <= 0 disables it.
func (g *Gate) SetCooldown(c Cooldown, window func() time.Duration) {
	g.cooldown = c
	g.cooldownWindow = window
}

func (g *Gate) SetAlertMailer(m AlertMailer) {
	g.mailer = m
}

// Evaluate returns the number of successful pushes. Per-token failures are
// logged and never returned.
func (g *Gate) Evaluate(ctx context.Context, reading *domain.Reading, detector *domain.Detector) (int, error) {
	if reading.Status != domain.StatusDanger {
		return 0, nil
	}

	owner, err := g.userRepo.FindByID(ctx, detector.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to load detector owner: %w", err)
	}
	if owner == nil {
		return 0, authdomain.ErrUserNotFound
	}
	if !owner.NotificationsEnabled {
		g.logger.Debug("Notifications disabled, skipping alert",
			zap.String("user_id", owner.ID),
			zap.String("detector_id", detector.ID),
		)
		return 0, nil
	}

	if !g.acquireCooldown(ctx, detector.ID) {
		g.logger.Info("Alert suppressed by cooldown", zap.String("detector_id", detector.ID))
		return 0, nil
	}

	tokens, err := g.fcmRepo.GetTokensByUserID(ctx, owner.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load notification tokens: %w", err)
	}

	title, body := AlertMessage(detector, reading)
	sent := g.fanOut(ctx, owner.ID, tokens, title, body, AlertData(detector, reading))

	g.logger.Info("Danger alert dispatched",
		zap.String("detector_id", detector.ID),
		zap.String("reading_id", reading.ID),
		zap.Int("tokens", len(tokens)),
		zap.Int("sent", sent),
	)

	g.sendMail(ctx, owner, subjectFor(detector), alertHTML(detector, reading))
	return sent, nil
}

func (g *Gate) fanOut(ctx context.Context, userID string, tokens []authdomain.FCMToken, title, body string, data map[string]string) int {
	var sent atomic.Int64
	var eg errgroup.Group
	eg.SetLimit(g.concurrency)

	for _, t := range tokens {
		token := t.Token
		eg.Go(func() error {
			sendCtx, cancel := context.WithTimeout(ctx, g.sendTimeout)
			defer cancel()

			if err := g.notifier.Send(sendCtx, token, title, body, data); err != nil {
				g.logger.Warn("Failed to send push notification",
					zap.String("user_id", userID),
					zap.String("token", maskToken(token)),
					zap.Error(fmt.Errorf("%w: %w", ErrNotifierFailure, err)),
				)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = eg.Wait()

	return int(sent.Load())
}

// acquireCooldown fails open when the store errors
func (g *Gate) acquireCooldown(ctx context.Context, detectorID string) bool {
	if g.cooldown == nil || g.cooldownWindow == nil {
		return true
	}
	window := g.cooldownWindow()
	if window <= 0 {
		return true
	}

	ok, err := g.cooldown.Acquire(ctx, detectorID, window)
	if err != nil {
		g.logger.Warn("Cooldown check failed, sending anyway",
			zap.String("detector_id", detectorID),
			zap.Error(err),
		)
		return true
	}
	return ok
}

func (g *Gate) sendMail(ctx context.Context, owner *authdomain.User, subject, content string) {
	if g.mailer == nil || owner.Email == "" {
		return
	}
	if err := g.mailer.Send(ctx, owner.Email, subject, content); err != nil {
		g.logger.Warn("Failed to send alert email",
			zap.String("user_id", owner.ID),
			zap.Error(err),
		)
	}
}

// AlertMessage builds the push title and body for a DANGER reading
func AlertMessage(detector *domain.Detector, reading *domain.Reading) (string, string) {
	title := "Gas leak detected!"
	body := fmt.Sprintf("%s reported %d ppm (DANGER).", detectorLabel(detector), reading.PPM)
	return title, body
}

// AlertData is the push payload the app uses to open the detector screen.
// Each send gets the same map and must not modify it.
func AlertData(detector *domain.Detector, reading *domain.Reading) map[string]string {
	return map[string]string{
		"type":        "gas_alert",
		"detector_id": detector.ID,
		"reading_id":  reading.ID,
		"ppm":         strconv.Itoa(reading.PPM),
		"status":      string(reading.Status),
	}
}

func subjectFor(detector *domain.Detector) string {
	return "AlertFi: DANGER gas level at " + detectorLabel(detector)
}

func alertHTML(detector *domain.Detector, reading *domain.Reading) string {
	return fmt.Sprintf(
		"<h2>Gas leak detected</h2><p><strong>%s</strong> reported <strong>%d ppm</strong> at %s UTC.</p><p>Ventilate the area and check the detector immediately.</p>",
		html.EscapeString(detectorLabel(detector)),
		reading.PPM,
		reading.Timestamp.UTC().Format("2006-01-02 15:04:05"),
	)
}

func detectorLabel(detector *domain.Detector) string {
	if detector.Location != "" {
		return fmt.Sprintf("%s (%s)", detector.Name, detector.Location)
	}
	return detector.Name
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
