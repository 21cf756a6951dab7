package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/call-monitoring-service/internal/config"
	"github.com/spec-kit/call-monitoring-service/internal/domain"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	userRepo := newFakeUserRepo()
	refreshRepo := newFakeRefreshTokenRepo()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLDays:   30,
		BcryptCost:            4,
	}}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshRepo,
	}), userRepo, refreshRepo
}

func TestAuthService_Register_DefaultsToOperator(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "jsilva",
		Email:    "jsilva@example.com",
		Password: "secret123",
		FullName: "Joana Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestAuthService_Register_RejectsUnknownRole(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "j",
		Email:    "j@example.com",
		Password: "secret123",
		Role:     "manager",
	})
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestAuthService_Register_DuplicateUsernameAndEmail(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userRepo.add(&domain.User{Username: "taken", Email: "taken@example.com", IsActive: true})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "taken",
		Email:    "fresh@example.com",
		Password: "secret123",
	})
	assertCode(t, err, "CONFLICT")

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "fresh",
		Email:    "taken@example.com",
		Password: "secret123",
	})
	assertCode(t, err, "CONFLICT")
}

func TestAuthService_LoginFlow(t *testing.T) {
	svc, _, refreshRepo := newAuthFixture()

	registered, err := svc.Register(context.Background(), RegisterInput{
		Username: "jsilva",
		Email:    "jsilva@example.com",
		Password: "secret123",
		Role:     domain.RoleSupervisor,
	})
	require.NoError(t, err)

	user, pair, err := svc.Login(context.Background(), "jsilva", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.TokenManager().ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleSupervisor, claims.Role)

	userID, err := refreshRepo.Lookup(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "jsilva",
		Email:    "jsilva@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "jsilva", "wrong")
	assertCode(t, err, "UNAUTHORIZED")

	_, _, err = svc.Login(context.Background(), "nobody", "secret123")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "jsilva",
		Email:    "jsilva@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	user.IsActive = false
	userRepo.add(user)

	_, _, err = svc.Login(context.Background(), "jsilva", "secret123")
	assertCode(t, err, "FORBIDDEN")
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc, _, refreshRepo := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "jsilva",
		Email:    "jsilva@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, pair, err := svc.Login(context.Background(), "jsilva", "secret123")
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// The presented token was rotated out.
	_, err = refreshRepo.Lookup(context.Background(), pair.RefreshToken)
	assert.Error(t, err)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assertCode(t, err, "UNAUTHORIZED")
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "ghost-token")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	svc, _, refreshRepo := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "jsilva",
		Email:    "jsilva@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, pair, err := svc.Login(context.Background(), "jsilva", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	_, err = refreshRepo.Lookup(context.Background(), pair.RefreshToken)
	assert.Error(t, err)

	// Logging out without a token is a no-op.
	assert.NoError(t, svc.Logout(context.Background(), ""))
}
