package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vanypau15/nutrify-backend/internal/models"
)

// NewGormStores wires the SQL repositories. db must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:     &GormUserRepository{db: db},
		Foods:     &GormFoodRepository{db: db},
		Trackings: &GormTrackingRepository{db: db},
		Health:    gormPinger{db: db},
	}
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "find user by email")
	}
	return &user, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find user")
	}
	return &user, nil
}

type GormFoodRepository struct {
	db *gorm.DB
}

func NewGormFoodRepository(db *gorm.DB) *GormFoodRepository {
	return &GormFoodRepository{db: db}
}

func (r *GormFoodRepository) List(ctx context.Context) ([]models.Food, error) {
	foods := make([]models.Food, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	return foods, nil
}

func (r *GormFoodRepository) SearchByName(ctx context.Context, term string) ([]models.Food, error) {
	foods := make([]models.Food, 0)
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).
		Order("name ASC").
		Find(&foods).Error
	if err != nil {
		return nil, fmt.Errorf("search foods: %w", err)
	}
	return foods, nil
}

func (r *GormFoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := r.db.WithContext(ctx).First(&food, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find food")
	}
	return &food, nil
}

func (r *GormFoodRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Food{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count foods: %w", err)
	}
	return n, nil
}

func (r *GormFoodRepository) CreateMany(ctx context.Context, foods []models.Food) error {
	if len(foods) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(foods, 100).Error; err != nil {
		return fmt.Errorf("create foods: %w", err)
	}
	return nil
}

type GormTrackingRepository struct {
	db *gorm.DB
}

func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

func (r *GormTrackingRepository) Create(ctx context.Context, record *models.Tracking) error {
	record.EatenDate = record.EatenDate.UTC()
	if err := r.db.WithContext(ctx).Omit("User", "Food").Create(record).Error; err != nil {
		return fmt.Errorf("create tracking: %w", err)
	}
	return nil
}

func (r *GormTrackingRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Tracking, error) {
	records := make([]models.Tracking, 0)
	err := r.db.WithContext(ctx).
		Scopes(ForUser(userID), EatenBetween(from, to)).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "email") }).
		Preload("Food").
		Order("eaten_date ASC, created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find trackings: %w", err)
	}
	return records, nil
}

// ForUser restricts a query to rows owned by userID.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// EatenBetween restricts a query to from <= eaten_date <= to. Bounds are
// compared in UTC, the zone records are stored in.
func EatenBetween(from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("eaten_date >= ? AND eaten_date <= ?", from.UTC(), to.UTC())
	}
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
