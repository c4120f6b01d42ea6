package dto

import (
	"github.com/google/uuid"

	"github.com/vanypau15/nutrify-backend/internal/models"
)

// FoodSummary carries a food's name and macros, as embedded in resolved
// tracking records.
type FoodSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Protein       float64   `json:"protein"`
	Carbohydrates float64   `json:"carbohydrates"`
	Fat           float64   `json:"fat"`
	Fiber         float64   `json:"fiber"`
}

func NewFoodSummary(f *models.Food) *FoodSummary {
	if f == nil {
		return nil
	}
	return &FoodSummary{
		ID:            f.ID,
		Name:          f.Name,
		Protein:       f.Protein,
		Carbohydrates: f.Carbohydrates,
		Fat:           f.Fat,
		Fiber:         f.Fiber,
	}
}
