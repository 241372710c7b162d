package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhammedbesir/okuyamayanlar/internal/config"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

func setupTestService(t *testing.T) (*gorm.DB, *Service, func()) {
	t.Helper()

	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	svc := NewService(db, config.Auth{
		Mode:             config.AuthModeLocal,
		BcryptCost:       4, // fast hashing for tests
		TokenExpiry:      time.Hour,
		MaxLoginAttempts: 5,
		LockoutDuration:  30 * time.Minute,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, svc, cleanup
}

func TestSignUpFirstUserBecomesAdmin(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	first, err := svc.SignUp("muhammed", "muhammed@example.com", "Muhammed", "parola123")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleAdmin, first.Role)

	second, err := svc.SignUp("ayse", "ayse@example.com", "Ayşe", "parola123")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleMember, second.Role)
}

func TestSignUpValidation(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.SignUp("", "a@example.com", "", "parola123")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.SignUp("ab", "a@example.com", "", "parola123")
	assert.ErrorIs(t, err, ErrUsernameInvalid)

	_, err = svc.SignUp("valid_user", "not-an-email", "", "parola123")
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = svc.SignUp("valid_user", "a@example.com", "", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSignUpDuplicate(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	// Same username
	_, err = svc.SignUp("muhammed", "other@example.com", "", "parola123")
	assert.ErrorIs(t, err, ErrUserExists)

	// Same email
	_, err = svc.SignUp("other", "muhammed@example.com", "", "parola123")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthenticate(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	// By username
	user, err := svc.Authenticate("muhammed", "parola123")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)

	// By email
	_, err = svc.Authenticate("muhammed@example.com", "parola123")
	require.NoError(t, err)

	// Wrong password
	_, err = svc.Authenticate("muhammed", "yanlis-parola")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	// Unknown user
	_, err = svc.Authenticate("kimse", "parola123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateBannedUser(t *testing.T) {
	db, svc, cleanup := setupTestService(t)
	defer cleanup()

	user, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, db.Model(user).Updates(map[string]any{
		"banned":    true,
		"banned_at": now,
	}).Error)

	_, err = svc.Authenticate("muhammed", "parola123")
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestAuthenticateLockout(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = svc.Authenticate("muhammed", "yanlis-parola")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}

	// Even the correct password is rejected while locked
	_, err = svc.Authenticate("muhammed", "parola123")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAPITokenRoundTrip(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	user, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	token, err := svc.GenerateToken(user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Plaintext token never hits the database
	stored, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, token, stored.TokenHash)
	assert.Equal(t, HashToken(token), stored.TokenHash)

	require.NoError(t, svc.RevokeToken(user.ID))
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpiry(t *testing.T) {
	db, svc, cleanup := setupTestService(t)
	defer cleanup()

	user, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	token, err := svc.GenerateToken(user.ID)
	require.NoError(t, err)

	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&entities.User{}).Where("id = ?", user.ID).
		Update("token_created_at", stale).Error)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestChangePassword(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	user, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "yanlis", "yeniparola1")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	require.NoError(t, svc.ChangePassword(user.ID, "parola123", "yeniparola1"))

	_, err = svc.Authenticate("muhammed", "yeniparola1")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	_, svc, cleanup := setupTestService(t)
	defer cleanup()

	user, err := svc.SignUp("muhammed", "muhammed@example.com", "", "parola123")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, "Muhammed Beşir", "Kitap kurdu", "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "Muhammed Beşir", updated.Name)
	assert.Equal(t, "Kitap kurdu", updated.Bio)

	_, err = svc.UpdateProfile(9999, "x", "", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
