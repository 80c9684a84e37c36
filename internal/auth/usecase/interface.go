package usecase

import (
	"context"

	authdomain "alertfi-backend/internal/auth/domain"
	authdto "alertfi-backend/internal/auth/dto"
)

// AuthUsecase defines account, session and notification-token operations
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error)

	UpdateEmail(ctx context.Context, userID, email string) (*authdomain.User, error)
	ChangePassword(ctx context.Context, userID, password string) error
	// ToggleNotifications flips the user's push switch and returns the new value
	ToggleNotifications(ctx context.Context, userID string) (bool, error)

	RegisterFCMToken(ctx context.Context, userID, token, deviceInfo string) error
	UnregisterFCMToken(ctx context.Context, userID, token string) error

	// EnsureAdmin creates the admin account if no user with that email exists
	EnsureAdmin(ctx context.Context, email, password string) error
}
