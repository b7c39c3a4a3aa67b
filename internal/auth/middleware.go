package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/paykash-service/internal/domain"
	"github.com/spec-kit/paykash-service/internal/repository"
	apperrors "github.com/spec-kit/paykash-service/pkg/util/errorutil"
)

const claimsKey = "auth_claims"

// Middleware holds the two access gates placed in front of protected routes.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs the gates.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAuthenticated is the first gate: a bearer token must be present and
// verify. Missing credential fails closed with 401; an invalid one with 403.
// Verification never produces a 500.
func (m *Middleware) RequireAuthenticated(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(http.StatusUnauthorized).SendString("Unauthorized access")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "forbidden access"})
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "forbidden access"})
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// RequireRole is the second gate. The token's role claim is a snapshot from
// issuance time, so the gate re-queries the directory for the current role
// rather than trusting the claim.
func (m *Middleware) RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "forbidden access"})
		}

		user, err := m.users.GetByEmail(c.Context(), claims.Email)
		if err != nil {
			if err == pgx.ErrNoRows {
				return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "forbidden access"})
			}
			return apperrors.MapError(err)
		}
		if user.Role != role {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "forbidden access"})
		}
		return c.Next()
	}
}

// ClaimsFromContext retrieves the verified claims attached by the first gate.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
