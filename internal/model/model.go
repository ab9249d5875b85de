package model

import (
	"time"

	"github.com/dprince-03/LMS-API/pkg/auth"
)

type User struct {
	ID           int        `json:"id" db:"id"`
	UserName     string     `json:"user_name" db:"user_name"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         auth.Role  `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Author struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Biography *string   `json:"biography,omitempty" db:"biography"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type BookStatus string

const (
	BookAvailable BookStatus = "Available"
	BookBorrowed  BookStatus = "Borrowed"
)

// DeriveBookStatus is the single rule for the cached status projection:
// a book is Available iff at least one copy is on the shelf.
func DeriveBookStatus(availableCopies int) BookStatus {
	if availableCopies > 0 {
		return BookAvailable
	}
	return BookBorrowed
}

type Book struct {
	ID              int        `json:"id" db:"id"`
	ISBN            string     `json:"isbn" db:"isbn"`
	Title           string     `json:"title" db:"title"`
	AuthorID        int        `json:"author_id" db:"author_id"`
	PublishedDate   *time.Time `json:"published_date,omitempty" db:"published_date"`
	Description     *string    `json:"description,omitempty" db:"description"`
	Genre           *string    `json:"genre,omitempty" db:"genre"`
	Language        *string    `json:"language,omitempty" db:"language"`
	Pages           *int       `json:"pages,omitempty" db:"pages"`
	Publisher       *string    `json:"publisher,omitempty" db:"publisher"`
	AvailableCopies int        `json:"available_copies" db:"available_copies"`
	TotalCopies     int        `json:"total_copies" db:"total_copies"`
	Status          BookStatus `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`

	AuthorName *string `json:"author_name,omitempty" db:"author_name"`
}

// BookSummary is the trimmed book view embedded in borrow/return responses.
type BookSummary struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	ISBN            string     `json:"isbn"`
	AvailableCopies int        `json:"available_copies"`
	Status          BookStatus `json:"status"`
}

func (b Book) Summary() BookSummary {
	return BookSummary{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		AvailableCopies: b.AvailableCopies,
		Status:          b.Status,
	}
}

type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "Borrowed"
	StatusReturned BorrowStatus = "Returned"
	StatusOverdue  BorrowStatus = "Overdue"
)

type BorrowRecord struct {
	ID         int          `json:"id" db:"id"`
	UserID     int          `json:"user_id" db:"user_id"`
	BookID     int          `json:"book_id" db:"book_id"`
	BorrowDate time.Time    `json:"borrow_date" db:"borrow_date"`
	DueDate    time.Time    `json:"due_date" db:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty" db:"return_date"`
	Status     BorrowStatus `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
}

// Active reports whether the loan is still out (return_date unset).
func (r BorrowRecord) Active() bool {
	return r.ReturnDate == nil
}

// BorrowRecordDetails is a record joined with user/book/author display fields.
type BorrowRecordDetails struct {
	BorrowRecord
	UserName    string  `json:"user_name" db:"user_name"`
	UserEmail   string  `json:"user_email" db:"user_email"`
	BookTitle   string  `json:"book_title" db:"book_title"`
	BookISBN    string  `json:"book_isbn" db:"book_isbn"`
	AuthorName  *string `json:"author_name,omitempty" db:"author_name"`
	IsOverdue   bool    `json:"is_overdue" db:"-"`
	DaysOverdue int     `json:"days_overdue" db:"-"`
}
