package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dprince-03/LMS-API/pkg/auth"
)

func TestManager_IssueParse(t *testing.T) {
	t.Parallel()

	m := auth.NewManager(auth.Config{Secret: "test-secret", TTL: time.Hour})

	token, expiresAt, err := m.Issue(7, "reader", auth.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, 7, claims.UserID)
	require.Equal(t, "reader", claims.Profile.Username)
	require.Equal(t, string(auth.RoleUser), claims.Profile.Role)
}

func TestManager_Parse_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := auth.NewManager(auth.Config{Secret: "one", TTL: time.Hour})
	verifier := auth.NewManager(auth.Config{Secret: "another", TTL: time.Hour})

	token, _, err := issuer.Issue(7, "reader", auth.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestManager_Parse_Expired(t *testing.T) {
	t.Parallel()

	m := auth.NewManager(auth.Config{Secret: "test-secret", TTL: -time.Minute})

	token, _, err := m.Issue(7, "reader", auth.RoleUser)
	require.NoError(t, err)

	_, err = m.Parse(token)
	require.Error(t, err)
}
