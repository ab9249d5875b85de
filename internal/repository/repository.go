package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
	GetUserByLogin(ctx context.Context, login string) (model.User, error)
	ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, int, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeactivateUser(ctx context.Context, id int) error
	UpdateLastLogin(ctx context.Context, id int) error
}

type AuthorRepository interface {
	CreateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	ListAuthors(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int, error)
	UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error
}

type BookRepository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

// BorrowRepository is the availability ledger: every mutation that touches
// book copy counters or borrow record state goes through here and nowhere
// else, so the two cannot diverge.
type BorrowRepository interface {
	CommitBorrow(ctx context.Context, bookID, userID int, dueDate time.Time) (model.BorrowRecord, model.Book, error)
	CommitReturn(ctx context.Context, bookID, userID int) (model.BorrowRecord, model.Book, error)
	GetRecord(ctx context.Context, id int) (model.BorrowRecord, error)
	GetActiveRecord(ctx context.Context, userID, bookID int) (model.BorrowRecord, error)
	ActiveCount(ctx context.Context, userID int) (int, error)
	ActiveCountByBook(ctx context.Context, bookID int) (int, error)
	ExtendDueDate(ctx context.Context, recordID int, newDue time.Time) (model.BorrowRecord, error)
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecordDetails, int, error)
	SweepOverdue(ctx context.Context) (int64, error)
	Statistics(ctx context.Context) (model.BorrowStatistics, error)
}

type Repository interface {
	UserRepository
	AuthorRepository
	BookRepository
	BorrowRepository
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName   = `users`
	authorsTableName = `authors`
	booksTableName   = `books`
	borrowTableName  = `borrow_records`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
