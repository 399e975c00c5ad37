package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/repository"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads the account.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	c.Locals(principalKey, user)
	return c.Next()
}

// Optional loads the account when a bearer token is present but lets
// anonymous callers through. The submit endpoint uses this: the form
// validator decides whether an anonymous submission is acceptable.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		return err
	}
	if user != nil {
		c.Locals(principalKey, user)
	}
	return c.Next()
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*domain.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("account not found")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	return user, nil
}

// UserFromContext retrieves the authenticated account, if any.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

// RequireStaff ensures the caller is an active staff member.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.IsStaff {
			return apperrors.NewForbidden("staff access required")
		}
		return c.Next()
	}
}
