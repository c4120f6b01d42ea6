package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vanypau15/nutrify-backend/internal/dto"
	"github.com/vanypau15/nutrify-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.authService.Register(c.UserContext(), &req); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "User registered successfully",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}
