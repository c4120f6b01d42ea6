package handlers

import (
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"

	"github.com/vanypau15/nutrify-backend/internal/dto"
	"github.com/vanypau15/nutrify-backend/internal/identity"
	"github.com/vanypau15/nutrify-backend/internal/services"
)

// fail writes the client-facing response for a service error. Errors outside
// the taxonomy are returned to Fiber so ErrorHandler logs them as 500s.
func fail(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return respond(c, fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, services.ErrEmailTaken):
		return respond(c, fiber.StatusConflict, "User already exists")
	case errors.Is(err, services.ErrIncorrectPassword):
		return respond(c, fiber.StatusForbidden, "Incorrect password")
	case errors.Is(err, services.ErrUserNotFound):
		return respond(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrFoodNotFound):
		return respond(c, fiber.StatusNotFound, "Food not found")
	case errors.Is(err, services.ErrNoFoodsFound):
		return respond(c, fiber.StatusNotFound, "No food items found")
	}
	return err
}

func respond(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return respond(c, fiber.StatusBadRequest, "Invalid request body")
}

// ErrorHandler is the Fiber error handler. Server errors are logged and sent
// to Sentry; their details never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err.Error(),
		}
		if claims, cerr := identity.GetClaims(c); cerr == nil {
			attrs = append(attrs, "user_id", claims.UserID)
		}
		slog.Error("unhandled server error", attrs...)

		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("request_id", c.GetRespHeader(fiber.HeaderXRequestID))
				hub.CaptureException(err)
			})
		}
		message = "Internal server error"
	}

	return respond(c, code, message)
}

// NotFound answers any route that did not match.
func NotFound(c *fiber.Ctx) error {
	return respond(c, fiber.StatusNotFound, "Endpoint not found")
}
