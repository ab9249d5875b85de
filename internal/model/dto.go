package model

import (
	"math"
	"time"
)

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	UserName  string `json:"user_name" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	UserName  string `json:"user_name" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=Admin Librarian User"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      *string `json:"role" validate:"omitempty,oneof=Admin Librarian User"`
	IsActive  *bool   `json:"is_active"`
}

type CreateAuthorRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Biography *string `json:"biography"`
}

type UpdateAuthorRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Biography *string `json:"biography"`
}

type CreateBookRequest struct {
	ISBN            string     `json:"isbn" validate:"required"`
	Title           string     `json:"title" validate:"required"`
	AuthorID        int        `json:"author_id" validate:"required,gt=0"`
	PublishedDate   *time.Time `json:"published_date"`
	Description     *string    `json:"description"`
	Genre           *string    `json:"genre"`
	Language        *string    `json:"language"`
	Pages           *int       `json:"pages" validate:"omitempty,gt=0"`
	Publisher       *string    `json:"publisher"`
	TotalCopies     int        `json:"total_copies" validate:"gte=0"`
	AvailableCopies *int       `json:"available_copies" validate:"omitempty,gte=0"`
}

type UpdateBookRequest struct {
	Title           *string    `json:"title"`
	AuthorID        *int       `json:"author_id" validate:"omitempty,gt=0"`
	PublishedDate   *time.Time `json:"published_date"`
	Description     *string    `json:"description"`
	Genre           *string    `json:"genre"`
	Language        *string    `json:"language"`
	Pages           *int       `json:"pages" validate:"omitempty,gt=0"`
	Publisher       *string    `json:"publisher"`
	TotalCopies     *int       `json:"total_copies" validate:"omitempty,gte=0"`
	AvailableCopies *int       `json:"available_copies" validate:"omitempty,gte=0"`
}

type BorrowRequest struct {
	DueDays int `json:"due_days" validate:"omitempty,gt=0,lte=365"`
}

type ExtendRequest struct {
	ExtensionDays int `json:"extension_days" validate:"omitempty,gt=0,lte=365"`
}

type BorrowResult struct {
	BorrowRecord BorrowRecord `json:"borrow_record"`
	Book         BookSummary  `json:"book"`
	DueDate      time.Time    `json:"due_date"`
	DaysAllowed  int          `json:"days_allowed"`
}

type ReturnDetails struct {
	BorrowedDate time.Time `json:"borrowed_date"`
	DueDate      time.Time `json:"due_date"`
	ReturnedDate time.Time `json:"returned_date"`
	IsOverdue    bool      `json:"is_overdue"`
	DaysLate     int       `json:"days_late"`
	LateFee      float64   `json:"late_fee"`
}

type ReturnResult struct {
	BorrowRecord  BorrowRecord  `json:"borrow_record"`
	Book          BookSummary   `json:"book"`
	ReturnDetails ReturnDetails `json:"return_details"`
}

type Extension struct {
	PreviousDueDate time.Time `json:"previous_due_date"`
	NewDueDate      time.Time `json:"new_due_date"`
	ExtensionDays   int       `json:"extension_days"`
}

type ExtendResult struct {
	BorrowRecord BorrowRecord `json:"borrow_record"`
	Extension    Extension    `json:"extension"`
}

type RecordFilter struct {
	Page        int
	Limit       int
	UserID      *int
	BookID      *int
	Status      string
	OverdueOnly bool
}

type UserFilter struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

type AuthorFilter struct {
	Page   int
	Limit  int
	Search string
}

type BookFilter struct {
	Page     int
	Limit    int
	Search   string
	AuthorID *int
	Genre    string
	Status   string
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalItems   int  `json:"total_items"`
	ItemsPerPage int  `json:"items_per_page"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}

type BorrowStatistics struct {
	TotalBorrows    int       `json:"total_borrows" db:"total_borrows"`
	ActiveBorrows   int       `json:"active_borrows" db:"active_borrows"`
	ReturnedBorrows int       `json:"returned_borrows" db:"returned_borrows"`
	OverdueBorrows  int       `json:"overdue_borrows" db:"overdue_borrows"`
	AvgBorrowDays   float64   `json:"avg_borrow_days" db:"avg_borrow_days"`
	GeneratedAt     time.Time `json:"generated_at" db:"-"`
}

type OverdueSummary struct {
	TotalOverdueBooks int   `json:"total_overdue_books"`
	UpdatedRecords    int64 `json:"updated_records"`
}

type UserBorrowStats struct {
	TotalBorrows  int  `json:"total_borrows"`
	ActiveBorrows int  `json:"active_borrows"`
	CanBorrowMore bool `json:"can_borrow_more"`
}

type UserSummary struct {
	ID            int    `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	ActiveBorrows int    `json:"active_borrows"`
}

type UserRecordsResult struct {
	User       UserSummary           `json:"user"`
	Records    []BorrowRecordDetails `json:"records"`
	Statistics UserBorrowStats       `json:"statistics"`
}
