package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/vanypau15/nutrify-backend/internal/dto"
	"github.com/vanypau15/nutrify-backend/internal/identity"
	"github.com/vanypau15/nutrify-backend/internal/services"
)

type TrackingHandler struct {
	trackingService *services.TrackingService
}

func NewTrackingHandler(trackingService *services.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// Track records an intake for the authenticated user. Any user id in the
// body is ignored.
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return respond(c, fiber.StatusUnauthorized, "Token is not valid")
	}

	var req dto.TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	record, err := h.trackingService.Submit(c.UserContext(), userID, &req)
	if err != nil {
		return fail(c, err)
	}

	slog.Debug("food tracked", "user_id", userID, "tracking_id", record.ID)
	return c.Status(fiber.StatusCreated).JSON(dto.TrackResponse{
		Message: "Food Added",
		Data:    record,
	})
}

// ByUserAndDate lists a user's records for one calendar day.
func (h *TrackingHandler) ByUserAndDate(c *fiber.Ctx) error {
	records, err := h.trackingService.QueryByUserAndDate(c.UserContext(), c.Params("userId"), c.Params("date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewTrackingRecordResponses(records))
}
