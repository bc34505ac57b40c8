package services

import (
	"testing"

	"github.com/mvergara-dev/project-management-api/internal/config"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTIssuer:        "project-management-api",
		JWTAudience:      "project-management-api",
		JWTExpiryMinutes: 60,
	}
}

func setupAuthService(t *testing.T, cfg *config.Config) (*AuthService, *UserService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	return NewAuthService(userRepo, cfg), NewUserService(userRepo)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	authService, userService := setupAuthService(t, cfg)

	user, err := userService.Register(RegisterInput{
		Email:     "jwt@example.com",
		FirstName: "Key",
		LastName:  "Holder",
		Password:  "supersecret",
		Role:      models.RoleProjectManager,
	})
	require.NoError(t, err)

	token, err := authService.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, ok := authService.ValidateToken(token)
	require.True(t, ok)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, user.FullName(), claims.Name)
	require.Equal(t, models.RoleProjectManager, claims.Role)
	require.NotEmpty(t, claims.ID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.JWTExpiryMinutes = -1
	authService, userService := setupAuthService(t, cfg)

	user, err := userService.Register(RegisterInput{
		Email:     "expired@example.com",
		FirstName: "Past",
		LastName:  "Due",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	token, err := authService.IssueToken(user)
	require.NoError(t, err)

	_, ok := authService.ValidateToken(token)
	require.False(t, ok)
}

func TestAuthService_RejectsForeignToken(t *testing.T) {
	cfg := testConfig()
	authService, userService := setupAuthService(t, cfg)

	otherCfg := testConfig()
	otherCfg.JWTIssuer = "some-other-service"
	otherAuth, _ := setupAuthService(t, otherCfg)

	user, err := userService.Register(RegisterInput{
		Email:     "foreign@example.com",
		FirstName: "Wrong",
		LastName:  "Issuer",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	token, err := otherAuth.IssueToken(user)
	require.NoError(t, err)

	_, ok := authService.ValidateToken(token)
	require.False(t, ok)
}

func TestAuthService_RejectsTamperedSecret(t *testing.T) {
	cfg := testConfig()
	authService, userService := setupAuthService(t, cfg)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "a-different-secret"
	otherAuth, _ := setupAuthService(t, otherCfg)

	user, err := userService.Register(RegisterInput{
		Email:     "tampered@example.com",
		FirstName: "Bad",
		LastName:  "Signature",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	token, err := otherAuth.IssueToken(user)
	require.NoError(t, err)

	_, ok := authService.ValidateToken(token)
	require.False(t, ok)
}

func TestAuthService_Authenticate(t *testing.T) {
	cfg := testConfig()
	authService, userService := setupAuthService(t, cfg)

	registered, err := userService.Register(RegisterInput{
		Email:     "Login@Example.com",
		FirstName: "Case",
		LastName:  "Folded",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	// Lookup is case-insensitive
	user, err := authService.Authenticate("LOGIN@example.COM", "supersecret")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = authService.Authenticate("login@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authService.Authenticate("nobody@example.com", "supersecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate_InactiveUser(t *testing.T) {
	cfg := testConfig()
	authService, userService := setupAuthService(t, cfg)

	user, err := userService.Register(RegisterInput{
		Email:     "gone@example.com",
		FirstName: "No",
		LastName:  "Longer",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, userService.DeactivateUser(user.ID))

	_, err = authService.Authenticate("gone@example.com", "supersecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
