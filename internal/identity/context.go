package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vanypau15/nutrify-backend/internal/auth"
)

// LocalsKey is the Fiber locals key the auth middleware stores claims under.
const LocalsKey = "claims"

var ErrNoIdentity = errors.New("no authenticated identity in context")

// SetClaims attaches verified claims to the request.
func SetClaims(c *fiber.Ctx, claims *auth.Claims) {
	c.Locals(LocalsKey, claims)
}

// GetClaims extracts the verified claims from Fiber context locals.
func GetClaims(c *fiber.Ctx) (*auth.Claims, error) {
	claims, ok := c.Locals(LocalsKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, ErrNoIdentity
	}
	return claims, nil
}

// GetUserID extracts the authenticated user's UUID from the claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.UserID)
}
