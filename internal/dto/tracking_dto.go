package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vanypau15/nutrify-backend/internal/models"
)

// TrackRequest never carries the owner; it always comes from the token.
type TrackRequest struct {
	FoodID    string `json:"foodId"`
	Quantity  int    `json:"quantity"`
	EatenDate string `json:"eatenDate"`
}

type TrackResponse struct {
	Message string           `json:"message"`
	Data    *models.Tracking `json:"data"`
}

// TrackingRecordResponse is a tracking record with its user and food resolved.
type TrackingRecordResponse struct {
	ID        uuid.UUID     `json:"id"`
	User      *UserResponse `json:"user"`
	Food      *FoodSummary  `json:"food"`
	Quantity  int           `json:"quantity"`
	EatenDate time.Time     `json:"eatenDate"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func NewTrackingRecordResponses(records []models.Tracking) []TrackingRecordResponse {
	out := make([]TrackingRecordResponse, 0, len(records))
	for i := range records {
		r := &records[i]
		resp := TrackingRecordResponse{
			ID:        r.ID,
			Food:      NewFoodSummary(r.Food),
			Quantity:  r.Quantity,
			EatenDate: r.EatenDate,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		if r.User != nil {
			resp.User = &UserResponse{ID: r.User.ID, Email: r.User.Email}
		}
		out = append(out, resp)
	}
	return out
}
