package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

func (f *fakeRepo) CreateUser(_ context.Context, user model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.UserName == user.UserName {
			return model.User{}, errs.ErrLoginTaken
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.IsActive = true
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeRepo) GetUserByLogin(_ context.Context, login string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == login || user.UserName == login {
			return user, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
	f.users[id] = user
	return nil
}

func TestService_RegisterLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeRepo()
	svc := newTestService(repo, defaultPolicy())

	req := model.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		UserName:  "ada",
		Email:     "ada@example.com",
		Password:  "correct horse",
	}

	user, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.Equal(t, auth.RoleUser, user.Role)
	require.True(t, user.IsActive)
	require.NotEqual(t, req.Password, user.PasswordHash, "password must not be stored in clear")

	t.Run("duplicate login rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, req)
		require.ErrorIs(t, err, errs.ErrLoginTaken)
	})

	t.Run("login by username", func(t *testing.T) {
		resp, err := svc.Login(ctx, model.LoginRequest{Login: "ada", Password: "correct horse"})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, "Bearer", resp.TokenType)
	})

	t.Run("login by email", func(t *testing.T) {
		resp, err := svc.Login(ctx, model.LoginRequest{Login: "ada@example.com", Password: "correct horse"})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password and unknown user look identical", func(t *testing.T) {
		_, wrongPass := svc.Login(ctx, model.LoginRequest{Login: "ada", Password: "nope"})
		_, unknown := svc.Login(ctx, model.LoginRequest{Login: "ghost", Password: "nope"})
		require.ErrorIs(t, wrongPass, errs.ErrInvalidCredentials)
		require.ErrorIs(t, unknown, errs.ErrInvalidCredentials)
	})
}

func TestService_Login_InactiveUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeRepo()
	svc := newTestService(repo, defaultPolicy())

	user, err := svc.Register(ctx, model.RegisterRequest{
		FirstName: "Grace", LastName: "Hopper", UserName: "grace",
		Email: "grace@example.com", Password: "cobol4ever",
	})
	require.NoError(t, err)

	deactivated := repo.users[user.ID]
	deactivated.IsActive = false
	repo.users[user.ID] = deactivated

	_, err = svc.Login(ctx, model.LoginRequest{Login: "grace", Password: "cobol4ever"})
	require.ErrorIs(t, err, errs.ErrInactiveUser)

	_, err = svc.ResolveActor(ctx, user.ID)
	require.ErrorIs(t, err, errs.ErrInactiveUser)
}

func TestService_ResolveActor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeRepo()
	svc := newTestService(repo, defaultPolicy())

	user, err := svc.Register(ctx, model.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", UserName: "ada",
		Email: "ada@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	actor, err := svc.ResolveActor(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, auth.Actor{ID: user.ID, Username: "ada", Role: auth.RoleUser}, actor)

	_, err = svc.ResolveActor(ctx, 999)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
