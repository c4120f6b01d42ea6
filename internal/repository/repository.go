// Package repository persists users, foods and tracking records. Each store
// is an interface with a GORM implementation for SQL drivers and a MongoDB
// implementation for the document store.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vanypau15/nutrify-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	// Create fails with ErrDuplicate when the email is already registered.
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type FoodRepository interface {
	List(ctx context.Context) ([]models.Food, error)
	// SearchByName matches term as a literal, case-insensitive substring.
	SearchByName(ctx context.Context, term string) ([]models.Food, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error)
	Count(ctx context.Context) (int64, error)
	CreateMany(ctx context.Context, foods []models.Food) error
}

type TrackingRepository interface {
	Create(ctx context.Context, record *models.Tracking) error
	// FindByUserBetween returns the user's records with from <= EatenDate <= to,
	// with User and Food resolved.
	FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Tracking, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores bundles the repositories of one backend.
type Stores struct {
	Users     UserRepository
	Foods     FoodRepository
	Trackings TrackingRepository
	Health    Pinger
}
