package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/sfrp-tup/helpline/internal/auth"
	"github.com/sfrp-tup/helpline/internal/config"
	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/repository"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

// AuthService registers accounts and issues access tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewAuthService wires the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg, logger: logger}
}

// RegisterInput carries the signup form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// TokenResult is a signed access token with its expiry.
type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Register creates a submitter account. Staff accounts are provisioned
// out of band.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	fieldErrs := make(map[string]string)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrs["name"] = "Name is required."
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		fieldErrs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		fieldErrs["email"] = "Enter a valid email address."
	}
	if len(input.Password) < 8 {
		fieldErrs["password"] = "Password must be at least 8 characters."
	}
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewFieldValidationError(fieldErrs)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      false,
		IsActive:     true,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewFieldValidationError(map[string]string{
				"email": "An account with this email already exists.",
			})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("account registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.IsStaff)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, &TokenResult{AccessToken: token, ExpiresAt: expiresAt}, nil
}
