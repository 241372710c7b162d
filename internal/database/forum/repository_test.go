package forum

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

	dbPath := "./test_forum_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.ForumTopic{}, &entities.ForumReply{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, NewRepository(db), cleanup
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepository_CreateTopic(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createUser(t, db, "mehmet")

	topic, err := repo.CreateTopic(user.ID, "Mart ayı kitabı", "Bu ay ne okuyoruz?")
	require.NoError(t, err)
	assert.NotZero(t, topic.ID)

	_, err = repo.CreateTopic(user.ID, "", "body")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = repo.CreateTopic(user.ID, "title", "")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestRepository_AddReply(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "mehmet")
	replier := createUser(t, db, "ayse")

	topic, err := repo.CreateTopic(author.ID, "Toplantı", "Cumartesi uygun mu?")
	require.NoError(t, err)

	reply, parent, err := repo.AddReply(topic.ID, replier.ID, "Bana uyar")
	require.NoError(t, err)
	assert.Equal(t, topic.ID, reply.TopicID)
	assert.Equal(t, author.ID, parent.UserID, "caller gets the topic author for notifications")

	_, _, err = repo.AddReply(9999, replier.ID, "kayıp")
	assert.ErrorIs(t, err, ErrTopicNotFound)

	got, err := repo.GetTopic(topic.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, "Bana uyar", got.Replies[0].Body)
}

func TestRepository_DeleteTopic(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "mehmet")
	other := createUser(t, db, "ayse")

	topic, err := repo.CreateTopic(author.ID, "Silinecek", "...")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteTopic(topic.ID, other.ID, false), ErrNotAuthor)

	// Admin moderation overrides ownership.
	require.NoError(t, repo.DeleteTopic(topic.ID, other.ID, true))

	_, err = repo.GetTopic(topic.ID)
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestRepository_ReplyCountForUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createUser(t, db, "mehmet")
	replier := createUser(t, db, "ayse")

	topic, err := repo.CreateTopic(author.ID, "Sayım", "...")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err := repo.AddReply(topic.ID, replier.ID, "cevap")
		require.NoError(t, err)
	}

	count, err := repo.ReplyCountForUser(replier.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
