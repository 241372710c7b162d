package users

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	t.Helper()

	dbPath := "./test_users_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Badge{}, &entities.UserBadge{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, NewRepository(db), cleanup
}

func TestRepository_SetBanned(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Username: "mehmet", Email: "mehmet@example.com"}
	require.NoError(t, db.Create(user).Error)

	require.NoError(t, repo.SetBanned(user.ID, true))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.Banned)
	assert.NotNil(t, got.BannedAt)

	require.NoError(t, repo.SetBanned(user.ID, false))
	got, err = repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.Banned)
	assert.Nil(t, got.BannedAt)

	assert.ErrorIs(t, repo.SetBanned(9999, true), ErrUserNotFound)
}

func TestRepository_GrantBadge(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Username: "mehmet", Email: "mehmet@example.com"}
	require.NoError(t, db.Create(user).Error)
	badge := &entities.Badge{Name: "Kurucu Üye", IsSpecial: true}
	require.NoError(t, db.Create(badge).Error)

	award, err := repo.GrantBadge(user.ID, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, badge.ID, award.BadgeID)

	_, err = repo.GrantBadge(user.ID, badge.ID)
	assert.ErrorIs(t, err, ErrAlreadyAwarded)

	_, err = repo.GrantBadge(9999, badge.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GrantBadge(user.ID, 9999)
	assert.ErrorIs(t, err, ErrBadgeNotFound)

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.Len(t, got.Badges, 1)
	assert.Equal(t, "Kurucu Üye", got.Badges[0].Name)
}

func TestRepository_List(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, db.Create(&entities.User{Username: name, Email: name + "@example.com"}).Error)
	}

	users, total, err := repo.List(2, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.EqualValues(t, 3, total)
}
