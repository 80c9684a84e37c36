package repository

import (
	"context"

	authdomain "alertfi-backend/internal/auth/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	Update(ctx context.Context, user *authdomain.User) error
	// ToggleNotifications flips notifications_enabled and returns the new value
	ToggleNotifications(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*authdomain.User, int64, error)

	SaveRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// FCMTokenRepository defines the interface for FCM token operations
type FCMTokenRepository interface {
	SaveToken(ctx context.Context, userID, token, deviceInfo string) error
	GetTokensByUserID(ctx context.Context, userID string) ([]authdomain.FCMToken, error)
	DeleteToken(ctx context.Context, userID, token string) error
}
