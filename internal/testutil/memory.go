// Package testutil provides in-memory repositories for usecase and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	authdomain "alertfi-backend/internal/auth/domain"
	"alertfi-backend/internal/detector/domain"

	"github.com/google/uuid"
)

type UserStore struct {
	mu            sync.Mutex
	Users         map[string]*authdomain.User
	RefreshTokens map[string]*authdomain.RefreshToken
	FindErr       error
}

func NewUserStore(users ...*authdomain.User) *UserStore {
	s := &UserStore{
		Users:         make(map[string]*authdomain.User),
		RefreshTokens: make(map[string]*authdomain.RefreshToken),
	}
	for _, u := range users {
		s.Users[u.ID] = u
	}
	return s
}

func (s *UserStore) Create(_ context.Context, user *authdomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.Users[user.ID] = user
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*authdomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	for _, u := range s.Users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*authdomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	u, ok := s.Users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *UserStore) Update(_ context.Context, user *authdomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.UpdatedAt = time.Now()
	copied := *user
	s.Users[user.ID] = &copied
	return nil
}

func (s *UserStore) ToggleNotifications(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[id]
	if !ok {
		return false, authdomain.ErrUserNotFound
	}
	u.NotificationsEnabled = !u.NotificationsEnabled
	return u.NotificationsEnabled, nil
}

func (s *UserStore) List(_ context.Context, limit, offset int) ([]*authdomain.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*authdomain.User, 0, len(s.Users))
	for _, u := range s.Users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, limit, offset), int64(len(all)), nil
}

func (s *UserStore) SaveRefreshToken(_ context.Context, token *authdomain.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RefreshTokens[token.Token] = token
	return nil
}

func (s *UserStore) FindRefreshToken(_ context.Context, token string) (*authdomain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.RefreshTokens[token], nil
}

func (s *UserStore) DeleteRefreshToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.RefreshTokens, token)
	return nil
}

type TokenStore struct {
	mu     sync.Mutex
	Tokens []authdomain.FCMToken
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) SaveToken(_ context.Context, userID, token, deviceInfo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Tokens {
		if s.Tokens[i].UserID == userID && s.Tokens[i].Token == token {
			s.Tokens[i].DeviceInfo = deviceInfo
			s.Tokens[i].UpdatedAt = time.Now()
			return nil
		}
	}
	s.Tokens = append(s.Tokens, authdomain.FCMToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	})
	return nil
}

func (s *TokenStore) GetTokensByUserID(_ context.Context, userID string) ([]authdomain.FCMToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []authdomain.FCMToken
	for _, t := range s.Tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TokenStore) DeleteToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.Tokens[:0]
	for _, t := range s.Tokens {
		if t.UserID == userID && t.Token == token {
			continue
		}
		kept = append(kept, t)
	}
	s.Tokens = kept
	return nil
}

type DetectorStore struct {
	mu        sync.Mutex
	Detectors map[string]*domain.Detector
	FindErr   error
}

func NewDetectorStore(detectors ...*domain.Detector) *DetectorStore {
	s := &DetectorStore{Detectors: make(map[string]*domain.Detector)}
	for _, d := range detectors {
		s.Detectors[d.ID] = d
	}
	return s
}

func (s *DetectorStore) Create(_ context.Context, detector *domain.Detector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if detector.ID == "" {
		detector.ID = uuid.New().String()
	}
	detector.CreatedAt = time.Now()
	detector.UpdatedAt = detector.CreatedAt
	s.Detectors[detector.ID] = detector
	return nil
}

func (s *DetectorStore) FindByID(_ context.Context, id string) (*domain.Detector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	d, ok := s.Detectors[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (s *DetectorStore) FindByIDForOwner(ctx context.Context, ownerID, id string) (*domain.Detector, error) {
	d, err := s.FindByID(ctx, id)
	if err != nil || d == nil || d.UserID != ownerID {
		return nil, err
	}
	return d, nil
}

func (s *DetectorStore) ListByOwner(_ context.Context, ownerID string) ([]*domain.Detector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Detector
	for _, d := range s.Detectors {
		if d.UserID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DetectorStore) List(_ context.Context, limit, offset int) ([]*domain.Detector, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*domain.Detector, 0, len(s.Detectors))
	for _, d := range s.Detectors {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (s *DetectorStore) Toggle(_ context.Context, ownerID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.Detectors[id]
	if !ok || d.UserID != ownerID {
		return false, domain.ErrDetectorNotFound
	}
	d.SensorOn = !d.SensorOn
	return d.SensorOn, nil
}

// ReadingStore keeps readings in insertion order
type ReadingStore struct {
	mu        sync.Mutex
	Readings  []*domain.Reading
	CreateErr error
	owners    func(detectorID string) string
}

func NewReadingStore(detectors *DetectorStore) *ReadingStore {
	return &ReadingStore{
		owners: func(detectorID string) string {
			if detectors == nil {
				return ""
			}
			detectors.mu.Lock()
			defer detectors.mu.Unlock()
			if d, ok := detectors.Detectors[detectorID]; ok {
				return d.UserID
			}
			return ""
		},
	}
}

func (s *ReadingStore) Create(_ context.Context, reading *domain.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if reading.ID == "" {
		reading.ID = uuid.New().String()
	}
	copied := *reading
	s.Readings = append(s.Readings, &copied)
	return nil
}

func (s *ReadingStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Readings)
}

func (s *ReadingStore) Latest(_ context.Context, detectorID string) (*domain.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *domain.Reading
	for _, r := range s.Readings {
		if r.DetectorID == detectorID && (latest == nil || !r.Timestamp.Before(latest.Timestamp)) {
			latest = r
		}
	}
	return latest, nil
}

func (s *ReadingStore) History(_ context.Context, detectorID string, statuses []domain.Status, limit, offset int) ([]*domain.Reading, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*domain.Reading
	for _, r := range s.Readings {
		if r.DetectorID != detectorID || !hasStatus(statuses, r.Status) {
			continue
		}
		matched = append(matched, r)
	}
	newestFirst(matched)
	return page(matched, limit, offset), int64(len(matched)), nil
}

func (s *ReadingStore) Recent(_ context.Context, limit int) ([]*domain.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append([]*domain.Reading(nil), s.Readings...)
	newestFirst(all)
	return page(all, limit, 0), nil
}

func (s *ReadingStore) DeleteForOwner(_ context.Context, ownerID, readingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.Readings {
		if r.ID == readingID && s.owners(r.DetectorID) == ownerID {
			s.Readings = append(s.Readings[:i], s.Readings[i+1:]...)
			return nil
		}
	}
	return domain.ErrReadingNotFound
}

func hasStatus(statuses []domain.Status, status domain.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func newestFirst(readings []*domain.Reading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.After(readings[j].Timestamp)
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
