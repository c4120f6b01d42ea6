package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vanypau15/nutrify-backend/internal/models"
	"github.com/vanypau15/nutrify-backend/internal/repository"
)

type FoodService struct {
	foods repository.FoodRepository
}

func NewFoodService(foods repository.FoodRepository) *FoodService {
	return &FoodService{foods: foods}
}

func (s *FoodService) List(ctx context.Context) ([]models.Food, error) {
	return s.foods.List(ctx)
}

// Search returns foods whose name contains term, ignoring case.
func (s *FoodService) Search(ctx context.Context, term string) ([]models.Food, error) {
	if strings.TrimSpace(term) == "" {
		return nil, invalid("Search term is required")
	}

	foods, err := s.foods.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return nil, ErrNoFoodsFound
	}
	return foods, nil
}

// SeedDefaults fills an empty catalog with DefaultFoods and reports how many
// rows were inserted. A non-empty catalog is left untouched.
func (s *FoodService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.foods.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	foods := DefaultFoods()
	if err := s.foods.CreateMany(ctx, foods); err != nil {
		return 0, err
	}
	slog.Info("food catalog seeded", "count", len(foods))
	return len(foods), nil
}

// DefaultFoods returns a fresh copy of the starter catalog. Values are grams
// per 100 g serving.
func DefaultFoods() []models.Food {
	return []models.Food{
		{Name: "Apple", Protein: 0.3, Carbohydrates: 13.8, Fat: 0.2, Fiber: 2.4},
		{Name: "Banana", Protein: 1.1, Carbohydrates: 22.8, Fat: 0.3, Fiber: 2.6},
		{Name: "Orange", Protein: 0.9, Carbohydrates: 11.8, Fat: 0.1, Fiber: 2.4},
		{Name: "Broccoli", Protein: 2.8, Carbohydrates: 6.6, Fat: 0.4, Fiber: 2.6},
		{Name: "Carrot", Protein: 0.9, Carbohydrates: 9.6, Fat: 0.2, Fiber: 2.8},
		{Name: "Spinach", Protein: 2.9, Carbohydrates: 3.6, Fat: 0.4, Fiber: 2.2},
		{Name: "Chicken Breast", Protein: 31, Carbohydrates: 0, Fat: 3.6, Fiber: 0},
		{Name: "Salmon", Protein: 20, Carbohydrates: 0, Fat: 13, Fiber: 0},
		{Name: "Egg", Protein: 13, Carbohydrates: 1.1, Fat: 11, Fiber: 0},
		{Name: "Brown Rice", Protein: 2.6, Carbohydrates: 23, Fat: 0.9, Fiber: 1.8},
		{Name: "White Rice", Protein: 2.7, Carbohydrates: 28, Fat: 0.3, Fiber: 0.4},
		{Name: "Oats", Protein: 16.9, Carbohydrates: 66.3, Fat: 6.9, Fiber: 10.6},
		{Name: "Whole Wheat Bread", Protein: 13, Carbohydrates: 41, Fat: 3.4, Fiber: 7},
		{Name: "Lentils", Protein: 9, Carbohydrates: 20, Fat: 0.4, Fiber: 7.9},
		{Name: "Greek Yogurt", Protein: 10, Carbohydrates: 3.6, Fat: 0.4, Fiber: 0},
		{Name: "Almonds", Protein: 21, Carbohydrates: 22, Fat: 49, Fiber: 12.5},
		{Name: "Avocado", Protein: 2, Carbohydrates: 8.5, Fat: 14.7, Fiber: 6.7},
		{Name: "Sweet Potato", Protein: 1.6, Carbohydrates: 20, Fat: 0.1, Fiber: 3},
	}
}
