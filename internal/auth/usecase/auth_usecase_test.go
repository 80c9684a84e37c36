package usecase

import (
	"context"
	"testing"
	"time"

	authdomain "alertfi-backend/internal/auth/domain"
	authdto "alertfi-backend/internal/auth/dto"
	"alertfi-backend/internal/testutil"
	"alertfi-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuth(t *testing.T) (AuthUsecase, *testutil.UserStore, *testutil.TokenStore) {
	t.Helper()
	users := testutil.NewUserStore()
	tokens := testutil.NewTokenStore()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	return NewAuthUsecase(users, tokens, cfg, zap.NewNop()), users, tokens
}

func register(t *testing.T, uc AuthUsecase, email string) *authdto.TokenResponse {
	t.Helper()
	resp, err := uc.Register(context.Background(), &authdto.RegisterRequest{
		Email:    email,
		Password: "hunter22",
		Name:     "Owner",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_NotificationsOnByDefault(t *testing.T) {
	uc, _, _ := newTestAuth(t)

	resp := register(t, uc, "  Owner@Example.com ")

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "owner@example.com", resp.User.Email)
	assert.True(t, resp.User.NotificationsEnabled)
	assert.False(t, resp.User.IsAdmin)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	register(t, uc, "owner@example.com")

	_, err := uc.Register(context.Background(), &authdto.RegisterRequest{
		Email: "OWNER@example.com", Password: "another1", Name: "Dup",
	})

	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	register(t, uc, "owner@example.com")
	ctx := context.Background()

	_, err := uc.Login(ctx, &authdto.LoginRequest{Email: "owner@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &authdto.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	resp, err := uc.Login(ctx, &authdto.LoginRequest{Email: "owner@example.com", Password: "hunter22"})
	require.NoError(t, err)

	user, err := uc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
}

func TestValidateToken_Rejects(t *testing.T) {
	uc, _, _ := newTestAuth(t)

	_, err := uc.ValidateToken(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}

func TestRefreshToken_Rotates(t *testing.T) {
	uc, users, _ := newTestAuth(t)
	first := register(t, uc, "owner@example.com")
	ctx := context.Background()

	second, err := uc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotContains(t, users.RefreshTokens, first.RefreshToken)

	_, err = uc.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}

func TestLogout_InvalidatesRefreshToken(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	resp := register(t, uc, "owner@example.com")
	ctx := context.Background()

	require.NoError(t, uc.Logout(ctx, resp.RefreshToken))

	_, err := uc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}

func TestUpdateEmail(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	owner := register(t, uc, "owner@example.com")
	register(t, uc, "taken@example.com")
	ctx := context.Background()

	_, err := uc.UpdateEmail(ctx, owner.User.ID, "taken@example.com")
	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)

	user, err := uc.UpdateEmail(ctx, owner.User.ID, "New@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestChangePassword(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	owner := register(t, uc, "owner@example.com")
	ctx := context.Background()

	require.NoError(t, uc.ChangePassword(ctx, owner.User.ID, "brand-new-pass"))

	_, err := uc.Login(ctx, &authdto.LoginRequest{Email: "owner@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, &authdto.LoginRequest{Email: "owner@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestToggleNotifications(t *testing.T) {
	uc, _, _ := newTestAuth(t)
	owner := register(t, uc, "owner@example.com")
	ctx := context.Background()

	enabled, err := uc.ToggleNotifications(ctx, owner.User.ID)
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = uc.ToggleNotifications(ctx, owner.User.ID)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = uc.ToggleNotifications(ctx, "ghost")
	assert.ErrorIs(t, err, authdomain.ErrUserNotFound)
}

func TestRegisterFCMToken_Idempotent(t *testing.T) {
	uc, _, tokens := newTestAuth(t)
	ctx := context.Background()

	require.NoError(t, uc.RegisterFCMToken(ctx, "u-1", "tok", "pixel"))
	require.NoError(t, uc.RegisterFCMToken(ctx, "u-1", "tok", "pixel 8"))

	got, err := tokens.GetTokensByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pixel 8", got[0].DeviceInfo)

	require.NoError(t, uc.UnregisterFCMToken(ctx, "u-1", "tok"))
	got, err = tokens.GetTokensByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnsureAdmin(t *testing.T) {
	uc, users, _ := newTestAuth(t)
	ctx := context.Background()

	require.NoError(t, uc.EnsureAdmin(ctx, "admin@alertfi.com", "admin123"))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@alertfi.com", "admin123"))

	assert.Len(t, users.Users, 1)
	admin, err := users.FindByEmail(ctx, "admin@alertfi.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}
