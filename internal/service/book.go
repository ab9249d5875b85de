package service

import (
	"context"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
)

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if _, err := s.repo.GetAuthor(ctx, req.AuthorID); err != nil {
		return model.Book{}, err
	}

	available := req.TotalCopies
	if req.AvailableCopies != nil {
		available = *req.AvailableCopies
	}
	if available > req.TotalCopies {
		return model.Book{}, errs.ErrCopiesExceeded
	}

	return s.repo.CreateBook(ctx, model.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		PublishedDate:   req.PublishedDate,
		Description:     req.Description,
		Genre:           req.Genre,
		Language:        req.Language,
		Pages:           req.Pages,
		Publisher:       req.Publisher,
		AvailableCopies: available,
		TotalCopies:     req.TotalCopies,
		Status:          model.DeriveBookStatus(available),
	})
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, model.Pagination, error) {
	books, total, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return books, model.NewPagination(filter.Page, filter.Limit, total), nil
}

// UpdateBook is the one admin path that may edit copy counters; it re-derives
// the cached status from the new availability like the ledger does.
func (s *Service) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.AuthorID != nil {
		if _, err := s.repo.GetAuthor(ctx, *req.AuthorID); err != nil {
			return model.Book{}, err
		}
		book.AuthorID = *req.AuthorID
	}
	if req.PublishedDate != nil {
		book.PublishedDate = req.PublishedDate
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.Genre != nil {
		book.Genre = req.Genre
	}
	if req.Language != nil {
		book.Language = req.Language
	}
	if req.Pages != nil {
		book.Pages = req.Pages
	}
	if req.Publisher != nil {
		book.Publisher = req.Publisher
	}
	if req.TotalCopies != nil {
		book.TotalCopies = *req.TotalCopies
	}
	if req.AvailableCopies != nil {
		book.AvailableCopies = *req.AvailableCopies
	}
	if book.AvailableCopies > book.TotalCopies || book.AvailableCopies < 0 {
		return model.Book{}, errs.ErrCopiesExceeded
	}
	book.Status = model.DeriveBookStatus(book.AvailableCopies)

	return s.repo.UpdateBook(ctx, book)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	active, err := s.repo.ActiveCountByBook(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return errs.ErrBookHasActiveBorrows
	}
	return s.repo.DeleteBook(ctx, id)
}
