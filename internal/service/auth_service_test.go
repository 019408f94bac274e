package service

import (
	"context"
	"testing"
	"time"

	"hardcase/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	users := newFakeUsers()
	auth := NewAuthService(users, "secret", time.Hour, SystemClock())
	ctx := context.Background()

	user, err := auth.Register(ctx, RegisterInput{
		FirstName: " Anna ",
		LastName:  "Smith",
		Email:     "Anna@Example.com ",
		Password:  "secret1",
		Role:      domain.RoleClient,
	})
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Equal(t, "Anna", user.FirstName)
	assert.Empty(t, user.PasswordHash)

	stored := users.users[user.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	_, err = auth.Register(ctx, RegisterInput{FirstName: "A", Email: "anna@example.com", Password: "secret1", Role: domain.RoleClient})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, logged, err := auth.Login(ctx, "ANNA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleClient, claims.Role)

	_, _, err = auth.Login(ctx, "anna@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthRegisterValidation(t *testing.T) {
	auth := NewAuthService(newFakeUsers(), "secret", time.Hour, SystemClock())
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing name":   {Email: "a@example.com", Password: "secret1", Role: domain.RoleClient},
		"bad email":      {FirstName: "A", Email: "not-an-email", Password: "secret1", Role: domain.RoleClient},
		"short password": {FirstName: "A", Email: "a@example.com", Password: "123", Role: domain.RoleClient},
		"unknown role":   {FirstName: "A", Email: "a@example.com", Password: "secret1", Role: "admin"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Register(ctx, in)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestAuthParseTokenRejects(t *testing.T) {
	users := newFakeUsers()
	ctx := context.Background()
	issuer := NewAuthService(users, "secret", time.Hour, SystemClock())
	_, err := issuer.Register(ctx, RegisterInput{FirstName: "T", Email: "t@example.com", Password: "secret1", Role: domain.RoleTrainer})
	require.NoError(t, err)
	token, _, err := issuer.Login(ctx, "t@example.com", "secret1")
	require.NoError(t, err)

	other := NewAuthService(users, "other-secret", time.Hour, SystemClock())
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(users, "secret", time.Hour, fixedClock(time.Now().Add(-2*time.Hour)))
	old, _, err := expired.Login(ctx, "t@example.com", "secret1")
	require.NoError(t, err)
	_, err = issuer.ParseToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthCurrentUser(t *testing.T) {
	users := newFakeUsers()
	auth := NewAuthService(users, "secret", time.Hour, SystemClock())
	ctx := context.Background()

	user, err := auth.Register(ctx, RegisterInput{FirstName: "A", Email: "a@example.com", Password: "secret1", Role: domain.RoleTrainer})
	require.NoError(t, err)

	me, err := auth.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, me.Role)
	assert.Empty(t, me.PasswordHash)

	_, err = auth.CurrentUser(ctx, newID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
