package service

import (
	"context"

	"github.com/dprince-03/LMS-API/internal/model"
)

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, model.Author{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Biography: req.Biography,
	})
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context, filter model.AuthorFilter) ([]model.Author, model.Pagination, error) {
	authors, total, err := s.repo.ListAuthors(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return authors, model.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id int, req model.UpdateAuthorRequest) (model.Author, error) {
	author, err := s.repo.GetAuthor(ctx, id)
	if err != nil {
		return model.Author{}, err
	}
	if req.FirstName != nil {
		author.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		author.LastName = *req.LastName
	}
	if req.Email != nil {
		author.Email = req.Email
	}
	if req.Biography != nil {
		author.Biography = req.Biography
	}
	return s.repo.UpdateAuthor(ctx, author)
}

func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	return s.repo.DeleteAuthor(ctx, id)
}
