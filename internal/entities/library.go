package entities

import (
	"time"

	"gorm.io/gorm"
)

// Book is the catalog record. The four loan fields (Available, BorrowedByID,
// BorrowedAt, DueDate) always transition together: a book is available iff
// all three loan pointers are nil.
type Book struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"index;size:512" json:"title"`
	Author        string `gorm:"index;size:256" json:"author"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	ISBN          string `gorm:"index;size:20" json:"isbn,omitempty"`
	PublishedYear int    `json:"published_year,omitempty"`
	PageCount     int    `json:"page_count,omitempty"`
	Language      string `gorm:"size:50" json:"language,omitempty"`
	Genre         string `gorm:"index;size:100" json:"genre,omitempty"`
	CoverImage    string `gorm:"size:2048" json:"cover_image,omitempty"`

	// Loan state
	Available    bool       `gorm:"default:true" json:"available"`
	BorrowedByID *uint      `gorm:"index" json:"borrowed_by_id,omitempty"`
	BorrowedAt   *time.Time `json:"borrowed_at,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	BorrowedBy *User    `gorm:"foreignKey:BorrowedByID" json:"-"`
	Reviews    []Review `gorm:"foreignKey:BookID" json:"reviews,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// Loan is the append-only borrow history. A row is open while ReturnedAt is
// nil; it feeds the "books read" badge counter and the overdue scan.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"index" json:"book_id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`

	// NotifiedAt records the last overdue reminder so the scan does not
	// notify the same loan more than once a day.
	NotifiedAt *time.Time `json:"-"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

type Review struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	BookID uint   `gorm:"index" json:"book_id"`
	UserID uint   `gorm:"index" json:"user_id"`
	Rating int    `json:"rating"`
	Text   string `gorm:"type:text" json:"text,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
