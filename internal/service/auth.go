package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

// Register creates a regular user account. Privileged roles are only
// assignable through the admin user endpoints.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
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
		Role:         auth.RoleUser,
	})
}

// Login accepts email or username. Missing user and wrong password both map
// to the same error so the response does not leak which accounts exist.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	if !user.IsActive {
		return model.AuthResponse{}, errs.ErrInactiveUser
	}

	token, expiresAt, err := s.jwt.Issue(user.ID, user.UserName, user.Role)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("update last login", zap.Int("user_id", user.ID), zap.Error(err))
	}

	return model.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt.Unix(),
	}, nil
}

// ResolveActor turns verified claims into an actor, re-checking that the
// account still exists and is active.
func (s *Service) ResolveActor(ctx context.Context, userID int) (auth.Actor, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return auth.Actor{}, err
	}
	if !user.IsActive {
		return auth.Actor{}, errs.ErrInactiveUser
	}
	return auth.Actor{
		ID:       user.ID,
		Username: user.UserName,
		Role:     user.Role,
	}, nil
}
