package errs

import (
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("access denied")

	// Conflict family: business-rule violations mapped to 409.
	ErrBookUnavailable      = errors.New("book is not available for borrowing")
	ErrAlreadyBorrowed      = errors.New("you have already borrowed this book")
	ErrBorrowLimit          = errors.New("borrow limit exceeded")
	ErrISBNExists           = errors.New("book with this ISBN already exists")
	ErrLoginTaken           = errors.New("user with this email or username already exists")
	ErrAuthorHasBooks       = errors.New("author is referenced by books and cannot be deleted")
	ErrBookHasActiveBorrows = errors.New("book has active borrow records and cannot be deleted")
	ErrCopiesExceeded       = errors.New("available copies cannot exceed total copies")

	ErrNoActiveBorrow  = errors.New("no active borrow record found for this book")
	ErrAlreadyReturned = errors.New("cannot extend due date for returned book")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("account is deactivated")
)
