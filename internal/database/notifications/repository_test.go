package notifications

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

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	t.Helper()

	dbPath := "./test_notifications_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Notification{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, NewRepository(db), cleanup
}

func TestRepository_NotifyAndList(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Notify(1, entities.NotificationForumReply, "Yeni cevap", "Konunuza cevap geldi", "/forum/3")
	require.NoError(t, err)
	_, err = repo.Notify(1, entities.NotificationBadgeAward, "Yeni rozet", "Kitap Kurdu", "/profile")
	require.NoError(t, err)
	_, err = repo.Notify(2, entities.NotificationLoanOverdue, "İade tarihi geçti", "", "/library/5")
	require.NoError(t, err)

	list, err := repo.ListForUser(1, false, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	count, err := repo.UnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRepository_MarkRead(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	n, err := repo.Notify(1, entities.NotificationForumReply, "Yeni cevap", "", "")
	require.NoError(t, err)

	// Another member cannot mark it.
	assert.ErrorIs(t, repo.MarkRead(n.ID, 2), ErrNotificationNotFound)

	require.NoError(t, repo.MarkRead(n.ID, 1))

	unread, err := repo.ListForUser(1, true, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// Already read.
	assert.ErrorIs(t, repo.MarkRead(n.ID, 1), ErrNotificationNotFound)
}

func TestRepository_MarkAllRead(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		_, err := repo.Notify(1, entities.NotificationForumReply, "Yeni cevap", "", "")
		require.NoError(t, err)
	}

	marked, err := repo.MarkAllRead(1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, marked)

	count, err := repo.UnreadCount(1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_DeleteOldRead(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	old, err := repo.Notify(1, entities.NotificationForumReply, "Eski", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.MarkRead(old.ID, 1))

	// Age the read notification past the retention window.
	aged := time.Now().Add(-100 * 24 * time.Hour)
	require.NoError(t, db.Model(&entities.Notification{}).Where("id = ?", old.ID).Update("created_at", aged).Error)

	// An old unread notification must survive cleanup.
	unread, err := repo.Notify(1, entities.NotificationForumReply, "Okunmamış", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Model(&entities.Notification{}).Where("id = ?", unread.ID).Update("created_at", aged).Error)

	deleted, err := repo.DeleteOldRead(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	remaining, err := repo.ListForUser(1, false, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Okunmamış", remaining[0].Title)
}
