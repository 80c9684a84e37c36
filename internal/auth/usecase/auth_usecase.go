package usecase

import (
	"context"
	"strings"
	"time"

	authdomain "alertfi-backend/internal/auth/domain"
	authdto "alertfi-backend/internal/auth/dto"
	"alertfi-backend/internal/auth/repository"
	"alertfi-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo     repository.UserRepository
	fcmTokenRepo repository.FCMTokenRepository
	config       *config.Config
	logger       *zap.Logger
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, fcmTokenRepo repository.FCMTokenRepository, cfg *config.Config, logger *zap.Logger) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		fcmTokenRepo: fcmTokenRepo,
		config:       cfg,
		logger:       logger,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	return u.generateTokens(ctx, user)
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	email := normalizeEmail(req.Email)
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, authdomain.ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:                email,
		Password:             hashedPassword,
		Name:                 req.Name,
		NotificationsEnabled: true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.logger.Info("User registered", zap.String("user_id", user.ID))
	return u.generateTokens(ctx, user)
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	userID, err := u.parseUserID(refreshToken)
	if err != nil {
		return nil, err
	}

	// Check if token exists in repository
	storedToken, err := u.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, authdomain.ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	// Rotate: the presented refresh token is single use
	if err := u.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return u.generateTokens(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	userID, err := u.parseUserID(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	return user, nil
}

func (u *authUsecase) UpdateEmail(ctx context.Context, userID, email string) (*authdomain.User, error) {
	email = normalizeEmail(email)
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}
	if user.Email == email {
		return user, nil
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, authdomain.ErrEmailTaken
	}

	user.Email = email
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID, password string) error {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return authdomain.ErrUserNotFound
	}

	hashedPassword, err := repository.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	return u.userRepo.Update(ctx, user)
}

func (u *authUsecase) ToggleNotifications(ctx context.Context, userID string) (bool, error) {
	enabled, err := u.userRepo.ToggleNotifications(ctx, userID)
	if err != nil {
		return false, err
	}
	u.logger.Info("Notifications toggled", zap.String("user_id", userID), zap.Bool("enabled", enabled))
	return enabled, nil
}

func (u *authUsecase) RegisterFCMToken(ctx context.Context, userID, token, deviceInfo string) error {
	return u.fcmTokenRepo.SaveToken(ctx, userID, token, deviceInfo)
}

func (u *authUsecase) UnregisterFCMToken(ctx context.Context, userID, token string) error {
	return u.fcmTokenRepo.DeleteToken(ctx, userID, token)
}

func (u *authUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		u.logger.Info("Admin already exists", zap.String("email", email))
		return nil
	}

	hashedPassword, err := repository.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &authdomain.User{
		Email:                email,
		Password:             hashedPassword,
		Name:                 "Administrator",
		NotificationsEnabled: true,
		IsAdmin:              true,
	}
	if err := u.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	u.logger.Info("Default admin created", zap.String("email", email))
	return nil
}

func (u *authUsecase) generateTokens(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.signToken(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.signToken(jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.SaveRefreshToken(ctx, &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) parseUserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", authdomain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", authdomain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", authdomain.ErrInvalidToken
	}
	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
