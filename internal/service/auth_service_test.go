package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sfrp-tup/helpline/internal/auth"
	"github.com/sfrp-tup/helpline/internal/config"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	tokens := auth.NewTokenManager("test-secret", 60)
	// Minimum bcrypt cost keeps the tests fast.
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}
	return NewAuthService(users, tokens, cfg, zap.NewNop()), users
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture()

	tests := []struct {
		name      string
		input     RegisterInput
		wantField string
	}{
		{
			name:      "missing name",
			input:     RegisterInput{Email: "a@example.edu", Password: "longenough"},
			wantField: "name",
		},
		{
			name:      "bad email",
			input:     RegisterInput{Name: "Dana", Email: "nope", Password: "longenough"},
			wantField: "email",
		},
		{
			name:      "short password",
			input:     RegisterInput{Name: "Dana", Email: "a@example.edu", Password: "short"},
			wantField: "password",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
			assert.Contains(t, domainErr.Details, tt.wantField)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Dana Reyes",
		Email:    "Dana@Example.edu",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.edu", user.Email, "email is normalized")
	assert.False(t, user.IsStaff)
	assert.True(t, user.IsActive)

	loggedIn, token, err := svc.Login(context.Background(), "dana@example.edu", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token.AccessToken)

	_, _, err = svc.Login(context.Background(), "dana@example.edu", "wrong password")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)

	_, _, err = svc.Login(context.Background(), "nobody@example.edu", "correct horse")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
}
