package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
)

func (f *fakeRepo) GetAuthor(_ context.Context, id int) (model.Author, error) {
	if id == 1 {
		return model.Author{ID: 1, FirstName: "Donald", LastName: "Knuth"}, nil
	}
	return model.Author{}, errs.ErrNotFound
}

func (f *fakeRepo) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.books {
		if existing.ISBN == book.ISBN {
			return model.Book{}, errs.ErrISBNExists
		}
	}
	book.ID = f.nextID
	f.nextID++
	f.books[book.ID] = book
	return book, nil
}

func (f *fakeRepo) UpdateBook(_ context.Context, book model.Book) (model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[book.ID]; !ok {
		return model.Book{}, errs.ErrNotFound
	}
	f.books[book.ID] = book
	return book, nil
}

func (f *fakeRepo) DeleteBook(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeRepo) ActiveCountByBook(_ context.Context, bookID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, rec := range f.records {
		if rec.BookID == bookID && rec.ReturnDate == nil {
			count++
		}
	}
	return count, nil
}

func TestService_CreateBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("available defaults to total", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(newFakeRepo(), defaultPolicy())
		book, err := svc.CreateBook(ctx, model.CreateBookRequest{
			ISBN: "978-0201896831", Title: "TAOCP", AuthorID: 1, TotalCopies: 4,
		})
		require.NoError(t, err)
		require.Equal(t, 4, book.AvailableCopies)
		require.Equal(t, model.BookAvailable, book.Status)
	})

	t.Run("zero copies means borrowed status", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(newFakeRepo(), defaultPolicy())
		book, err := svc.CreateBook(ctx, model.CreateBookRequest{
			ISBN: "978-0201896831", Title: "TAOCP", AuthorID: 1, TotalCopies: 0,
		})
		require.NoError(t, err)
		require.Equal(t, model.BookBorrowed, book.Status)
	})

	t.Run("available above total rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(newFakeRepo(), defaultPolicy())
		five := 5
		_, err := svc.CreateBook(ctx, model.CreateBookRequest{
			ISBN: "978-0201896831", Title: "TAOCP", AuthorID: 1,
			TotalCopies: 2, AvailableCopies: &five,
		})
		require.ErrorIs(t, err, errs.ErrCopiesExceeded)
	})

	t.Run("unknown author rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(newFakeRepo(), defaultPolicy())
		_, err := svc.CreateBook(ctx, model.CreateBookRequest{
			ISBN: "978-0201896831", Title: "TAOCP", AuthorID: 99, TotalCopies: 1,
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_UpdateBook_Copies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeRepo()
	repo.addBook(1, 2, 3)
	svc := newTestService(repo, defaultPolicy())

	six := 6
	_, err := svc.UpdateBook(ctx, 1, model.UpdateBookRequest{AvailableCopies: &six})
	require.ErrorIs(t, err, errs.ErrCopiesExceeded)

	zero := 0
	book, err := svc.UpdateBook(ctx, 1, model.UpdateBookRequest{AvailableCopies: &zero})
	require.NoError(t, err)
	require.Equal(t, model.BookBorrowed, book.Status)
}

func TestService_DeleteBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeRepo()
	repo.addBook(1, 0, 1)
	repo.addActiveRecord(7, 1, time.Now().UTC().AddDate(0, 0, 7))
	svc := newTestService(repo, defaultPolicy())

	err := svc.DeleteBook(ctx, 1)
	require.ErrorIs(t, err, errs.ErrBookHasActiveBorrows)

	_, err = svc.Return(ctx, 7, 1)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBook(ctx, 1))
}
