package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vanypau15/nutrify-backend/internal/auth"
	"github.com/vanypau15/nutrify-backend/internal/dto"
	"github.com/vanypau15/nutrify-backend/internal/identity"
)

const bearerPrefix = "Bearer "

// RequireAuth verifies the bearer token and stores its claims for
// identity.GetClaims. Any valid token grants access; there are no roles.
func RequireAuth(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), bearerPrefix))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "No token, authorization denied",
			})
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			slog.Warn("token rejected",
				"reason", reason(err),
				"path", c.Path(),
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Token is not valid",
			})
		}

		identity.SetClaims(c, claims)
		return c.Next()
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
