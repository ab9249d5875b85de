package handler

import (
	"context"

	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=service_mocks

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	ResolveActor(ctx context.Context, userID int) (auth.Actor, error)
}

type UserService interface {
	CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
	ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, model.Pagination, error)
	UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) (model.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type AuthorService interface {
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	ListAuthors(ctx context.Context, filter model.AuthorFilter) ([]model.Author, model.Pagination, error)
	UpdateAuthor(ctx context.Context, id int, req model.UpdateAuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error
}

type BookService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, model.Pagination, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

type BorrowService interface {
	Borrow(ctx context.Context, userID, bookID, dueDays int) (model.BorrowResult, error)
	Return(ctx context.Context, userID, bookID int) (model.ReturnResult, error)
	Extend(ctx context.Context, actor auth.Actor, recordID, extensionDays int) (model.ExtendResult, error)
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.BorrowRecordDetails, model.Pagination, error)
	OverdueRecords(ctx context.Context, page, limit int) ([]model.BorrowRecordDetails, model.Pagination, model.OverdueSummary, error)
	Statistics(ctx context.Context) (model.BorrowStatistics, error)
	UserRecords(ctx context.Context, actor auth.Actor, userID int, filter model.RecordFilter) (model.UserRecordsResult, model.Pagination, error)
}
