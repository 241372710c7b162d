package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

// defaultBadges is the badge catalog seeded on first start. Threshold badges
// are awarded automatically from member counters; special badges are granted
// by admins.
var defaultBadges = []entities.Badge{
	{Name: "İlk Adım", Description: "İlk kitabını ödünç al ve bitir", Icon: "📖", Color: "#3b82f6", Source: entities.BadgeSourceLoans, Requirement: 1, SortOrder: 1},
	{Name: "Kitap Kurdu", Description: "10 kitap oku", Icon: "🐛", Color: "#10b981", Source: entities.BadgeSourceLoans, Requirement: 10, SortOrder: 2, IsImportant: true},
	{Name: "Kütüphane Ustası", Description: "50 kitap oku", Icon: "📚", Color: "#f59e0b", Source: entities.BadgeSourceLoans, Requirement: 50, SortOrder: 3, IsImportant: true},
	{Name: "Edebiyat Profesörü", Description: "100 kitap oku", Icon: "🎓", Color: "#8b5cf6", Source: entities.BadgeSourceLoans, Requirement: 100, SortOrder: 4, IsImportant: true},
	{Name: "İlk Yorum", Description: "Forum'da ilk yorumunu yap", Icon: "💬", Color: "#06b6d4", Source: entities.BadgeSourceReplies, Requirement: 1, SortOrder: 5},
	{Name: "Tartışmacı", Description: "50 forum yorumu yap", Icon: "🗣️", Color: "#ec4899", Source: entities.BadgeSourceReplies, Requirement: 50, SortOrder: 6, IsImportant: true},
	{Name: "Forum Kahramanı", Description: "100 forum yorumu yap", Icon: "🦸", Color: "#ef4444", Source: entities.BadgeSourceReplies, Requirement: 100, SortOrder: 7, IsImportant: true},
	{Name: "İlk Etkinlik", Description: "İlk etkinliğine katıl", Icon: "🎉", Color: "#14b8a6", Source: entities.BadgeSourceEvents, Requirement: 1, SortOrder: 8},
	{Name: "Etkinlik Bağımlısı", Description: "10 etkinliğe katıl", Icon: "🎊", Color: "#a855f7", Source: entities.BadgeSourceEvents, Requirement: 10, SortOrder: 9, IsImportant: true},
	{Name: "Topluluk Yıldızı", Description: "25 etkinliğe katıl", Icon: "⭐", Color: "#f59e0b", Source: entities.BadgeSourceEvents, Requirement: 25, SortOrder: 10, IsImportant: true},
	{Name: "Kurucu Üye", Description: "Kulübün ilk üyelerinden biri", Icon: "👑", Color: "#fbbf24", IsSpecial: true, SortOrder: 11, IsImportant: true},
	{Name: "Yönetici", Description: "Kulüp yönetim ekibi", Icon: "🛡️", Color: "#dc2626", IsSpecial: true, SortOrder: 12, IsImportant: true},
	{Name: "Değerli Katkı", Description: "Kulübe özel katkıları için", Icon: "🏆", Color: "#f97316", IsSpecial: true, SortOrder: 13, IsImportant: true},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// The busy timeout keeps concurrent borrow/return writers queueing on
	// SQLite's single-writer lock instead of erroring out.
	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Badge{},
		&entities.UserBadge{},
		&entities.Book{},
		&entities.Loan{},
		&entities.Review{},
		&entities.ForumTopic{},
		&entities.ForumReply{},
		&entities.Event{},
		&entities.EventRSVP{},
		&entities.EventPhoto{},
		&entities.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedBadges(); err != nil {
		return nil, fmt.Errorf("failed to seed badges: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedBadges() error {
	for _, badge := range defaultBadges {
		var existing entities.Badge
		result := d.DB.Where("name = ?", badge.Name).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&badge).Error; err != nil {
				return fmt.Errorf("failed to create badge %s: %w", badge.Name, err)
			}
			log.Printf("Created badge: %s", badge.Name)
		}
	}
	return nil
}
