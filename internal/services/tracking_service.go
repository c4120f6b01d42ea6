package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanypau15/nutrify-backend/internal/dto"
	"github.com/vanypau15/nutrify-backend/internal/models"
	"github.com/vanypau15/nutrify-backend/internal/repository"
)

const dateLayout = "2006-01-02"

type TrackingService struct {
	trackings repository.TrackingRepository
	foods     repository.FoodRepository
	loc       *time.Location
	now       func() time.Time
}

// NewTrackingService computes calendar days in loc.
func NewTrackingService(trackings repository.TrackingRepository, foods repository.FoodRepository, loc *time.Location) *TrackingService {
	if loc == nil {
		loc = time.Local
	}
	return &TrackingService{
		trackings: trackings,
		foods:     foods,
		loc:       loc,
		now:       time.Now,
	}
}

// WithClock returns a copy of the service that reads "today" from now.
func (s *TrackingService) WithClock(now func() time.Time) *TrackingService {
	cp := *s
	cp.now = now
	return &cp
}

// Submit records an intake for userID, which must come from verified claims.
func (s *TrackingService) Submit(ctx context.Context, userID uuid.UUID, req *dto.TrackRequest) (*models.Tracking, error) {
	foodID, err := uuid.Parse(strings.TrimSpace(req.FoodID))
	if err != nil {
		return nil, invalid("Invalid food id")
	}
	if req.Quantity < 1 {
		return nil, invalid("Quantity must be at least 1")
	}

	eaten := s.today()
	if strings.TrimSpace(req.EatenDate) != "" {
		eaten, err = ParseDate(req.EatenDate, s.loc)
		if err != nil {
			return nil, invalid("Invalid date format")
		}
	}

	food, err := s.foods.FindByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}

	// Stored at millisecond precision so every instant falls inside exactly
	// one day window.
	record := models.Tracking{
		UserID:    userID,
		FoodID:    food.ID,
		Quantity:  req.Quantity,
		EatenDate: eaten.Truncate(time.Millisecond),
	}
	if err := s.trackings.Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to save tracking: %w", err)
	}
	return &record, nil
}

// QueryByUserAndDate returns the user's records eaten on the calendar day of
// date, with user and food resolved. No records is an empty slice.
func (s *TrackingService) QueryByUserAndDate(ctx context.Context, userID, date string) ([]models.Tracking, error) {
	day, err := ParseDate(date, s.loc)
	if err != nil {
		return nil, invalid("Invalid date format")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, invalid("Invalid user id")
	}

	start, end := DayBounds(day)
	return s.trackings.FindByUserBetween(ctx, uid, start, end)
}

func (s *TrackingService) today() time.Time {
	start, _ := DayBounds(s.now().In(s.loc))
	return start
}

// ParseDate accepts YYYY-MM-DD, read as midnight in loc, or an RFC 3339
// timestamp, converted to loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t.In(loc), nil
}

// DayBounds returns 00:00:00.000 and 23:59:59.999 of t's calendar day in t's
// location. Both ends are inclusive.
func DayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}
