// Command seed creates a database with a starter catalog, demo members and
// a sample event so a fresh install has something to browse.
// Usage: go run cmd/seed/main.go [-db path/to/club.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/muhammedbesir/okuyamayanlar/internal/database"
	"github.com/muhammedbesir/okuyamayanlar/internal/entities"
)

const defaultDatabasePath = "./okuyamayanlar.db"

const demoPassword = "parola123"

func main() {
	dbPath := flag.String("db", defaultDatabasePath, "path to the database file")
	fresh := flag.Bool("fresh", false, "delete the existing database first")
	flag.Parse()

	if *fresh {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	log.Printf("Seeding database at %s...", *dbPath)

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	users := createUsers(db)
	createBooks(db)
	createEvent(db, users)

	log.Println("Database seeded successfully!")
	log.Printf("Demo accounts use the password %q.", demoPassword)
}

func createUsers(db *database.Database) []entities.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	users := []entities.User{
		{
			Username:     "defne",
			Email:        "defne@example.com",
			Name:         "Defne Yılmaz",
			Role:         entities.UserRoleAdmin,
			Bio:          "Kulübün kurucusu. Roman ve deneme okur.",
			PasswordHash: string(hash),
		},
		{
			Username:     "emre",
			Email:        "emre@example.com",
			Name:         "Emre Kaya",
			Role:         entities.UserRoleMember,
			Bio:          "Bilimkurgu meraklısı.",
			PasswordHash: string(hash),
		},
		{
			Username:     "zeynep",
			Email:        "zeynep@example.com",
			Name:         "Zeynep Demir",
			Role:         entities.UserRoleMember,
			PasswordHash: string(hash),
		},
	}

	for i := range users {
		if err := db.DB.Create(&users[i]).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", users[i].Username, err)
		}
		log.Printf("Created user: %s (%s)", users[i].Username, users[i].Role)
	}
	return users
}

func createBooks(db *database.Database) {
	books := []entities.Book{
		{
			Title:         "Tutunamayanlar",
			Author:        "Oğuz Atay",
			Genre:         "Roman",
			Language:      "Türkçe",
			PublishedYear: 1972,
			PageCount:     724,
			Description:   "Türk edebiyatının en önemli modernist romanlarından.",
			Available:     true,
		},
		{
			Title:         "Saatleri Ayarlama Enstitüsü",
			Author:        "Ahmet Hamdi Tanpınar",
			Genre:         "Roman",
			Language:      "Türkçe",
			PublishedYear: 1961,
			PageCount:     382,
			Available:     true,
		},
		{
			Title:         "Kürk Mantolu Madonna",
			Author:        "Sabahattin Ali",
			Genre:         "Roman",
			Language:      "Türkçe",
			PublishedYear: 1943,
			PageCount:     160,
			Available:     true,
		},
		{
			Title:         "İnce Memed",
			Author:        "Yaşar Kemal",
			Genre:         "Roman",
			Language:      "Türkçe",
			PublishedYear: 1955,
			PageCount:     436,
			Available:     true,
		},
		{
			Title:         "Puslu Kıtalar Atlası",
			Author:        "İhsan Oktay Anar",
			Genre:         "Fantastik",
			Language:      "Türkçe",
			PublishedYear: 1995,
			PageCount:     238,
			Available:     true,
		},
		{
			Title:         "Dune",
			Author:        "Frank Herbert",
			Genre:         "Bilimkurgu",
			Language:      "Türkçe",
			PublishedYear: 1965,
			PageCount:     712,
			Available:     true,
		},
		{
			Title:         "1984",
			Author:        "George Orwell",
			Genre:         "Distopya",
			Language:      "Türkçe",
			PublishedYear: 1949,
			PageCount:     352,
			Available:     true,
		},
		{
			Title:         "Körlük",
			Author:        "José Saramago",
			Genre:         "Roman",
			Language:      "Türkçe",
			PublishedYear: 1995,
			PageCount:     336,
			Available:     true,
		},
	}

	for i := range books {
		if err := db.DB.Create(&books[i]).Error; err != nil {
			log.Printf("Failed to create book %s: %v", books[i].Title, err)
			continue
		}
		log.Printf("Created book: %s by %s", books[i].Title, books[i].Author)
	}
}

func createEvent(db *database.Database, users []entities.User) {
	if len(users) == 0 {
		return
	}

	event := entities.Event{
		CreatedByID: users[0].ID,
		Title:       "Ayın Kitabı Buluşması",
		Description: "Bu ayın kitabını birlikte tartışıyoruz. Çay ve kurabiye bizden.",
		Location:    "Kadıköy, Moda Sahil Kütüphanesi",
		StartsAt:    time.Now().AddDate(0, 0, 14).Truncate(time.Hour),
		Capacity:    20,
	}
	if err := db.DB.Create(&event).Error; err != nil {
		log.Fatalf("Failed to create event: %v", err)
	}
	log.Printf("Created event: %s", event.Title)
}
