package service

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

func (s *Service) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		role = auth.RoleUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, model.User{
		UserName:     req.UserName,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
}

func (s *Service) GetUser(ctx context.Context, id int) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, model.Pagination, error) {
	users, total, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return users, model.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *Service) UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) (model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if role, ok := auth.ParseRole(*req.Role); ok {
			user.Role = role
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	return s.repo.UpdateUser(ctx, user)
}

// DeleteUser deactivates rather than removes: the borrow history stays.
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	return s.repo.DeactivateUser(ctx, id)
}
