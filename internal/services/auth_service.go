package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vanypau15/nutrify-backend/internal/auth"
	"github.com/vanypau15/nutrify-backend/internal/dto"
	"github.com/vanypau15/nutrify-backend/internal/models"
	"github.com/vanypau15/nutrify-backend/internal/repository"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register stores a new user with a hashed password. The store's unique
// email index is the only duplicate check.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if err := requireCredentials(req.Email, req.Password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return invalid("Password must be at most 72 bytes")
		}
		return err
	}

	user := models.User{
		Email:    req.Email,
		Password: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := requireCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !auth.VerifyPassword(req.Password, user.Password) {
		return nil, ErrIncorrectPassword
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message: "Login Success",
		Token:   token,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
		},
	}, nil
}

func requireCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("Email and password are required")
	}
	return nil
}
