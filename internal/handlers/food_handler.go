package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/vanypau15/nutrify-backend/internal/services"
)

type FoodHandler struct {
	foodService *services.FoodService
}

func NewFoodHandler(foodService *services.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

func (h *FoodHandler) List(c *fiber.Ctx) error {
	foods, err := h.foodService.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(foods)
}

func (h *FoodHandler) Search(c *fiber.Ctx) error {
	term := c.Params("name")
	if decoded, err := url.PathUnescape(term); err == nil {
		term = decoded
	}

	foods, err := h.foodService.Search(c.UserContext(), term)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(foods)
}
