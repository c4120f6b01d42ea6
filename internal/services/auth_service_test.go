package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanypau15/nutrify-backend/internal/auth"
	"github.com/vanypau15/nutrify-backend/internal/dto"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	stores := setupStores(t)
	tokens := newTokens()
	svc := NewAuthService(stores.Users, tokens)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Password: "secret1"}))

	stored, err := stores.Users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.True(t, auth.VerifyPassword("secret1", stored.Password))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Login Success", resp.Message)
	assert.Equal(t, stored.ID, resp.User.ID)
	assert.Equal(t, "a@x.com", resp.User.Email)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestAuthService_RegisterDuplicateKeepsOriginal(t *testing.T) {
	stores := setupStores(t)
	svc := NewAuthService(stores.Users, newTokens())
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Password: "secret1"}))
	original, err := stores.Users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Password: "other-password"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	after, err := stores.Users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, original.ID, after.ID)
	assert.Equal(t, original.Password, after.Password)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(setupStores(t).Users, newTokens())

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"missing email", dto.RegisterRequest{Password: "secret1"}},
		{"missing password", dto.RegisterRequest{Email: "a@x.com"}},
		{"blank email", dto.RegisterRequest{Email: "  ", Password: "secret1"}},
		{"password too long", dto.RegisterRequest{Email: "a@x.com", Password: strings.Repeat("p", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_WhitespacePasswordIsAccepted(t *testing.T) {
	svc := NewAuthService(setupStores(t).Users, newTokens())
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Password: "   "}))

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "   "})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: " "})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestAuthService_LoginFailures(t *testing.T) {
	stores := setupStores(t)
	svc := NewAuthService(stores.Users, newTokens())
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Password: "secret1"}))

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidationError_Message(t *testing.T) {
	err := invalid("Quantity must be at least 1")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Quantity must be at least 1", err.Error())
}
