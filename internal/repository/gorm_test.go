package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vanypau15/nutrify-backend/internal/database"
	"github.com/vanypau15/nutrify-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUserAndFood(t *testing.T, stores Stores) (*models.User, *models.Food) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Email: "a@x.com", Password: "digest"}
	require.NoError(t, stores.Users.Create(ctx, user))

	foods := []models.Food{{Name: "Apple", Protein: 0.3, Carbohydrates: 14, Fat: 0.2, Fiber: 2.4}}
	require.NoError(t, stores.Foods.CreateMany(ctx, foods))

	return user, &foods[0]
}

func TestGormUserRepository_CreateAndFind(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	ctx := context.Background()

	user := &models.User{Email: "a@x.com", Password: "digest"}
	require.NoError(t, stores.Users.Create(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)

	byEmail, err := stores.Users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "digest", byEmail.Password)

	byID, err := stores.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestGormUserRepository_EmailIsCaseSensitive(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, stores.Users.Create(ctx, &models.User{Email: "a@x.com", Password: "d"}))

	_, err := stores.Users.FindByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormUserRepository_DuplicateEmail(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	ctx := context.Background()

	original := &models.User{Email: "a@x.com", Password: "first"}
	require.NoError(t, stores.Users.Create(ctx, original))

	err := stores.Users.Create(ctx, &models.User{Email: "a@x.com", Password: "second"})
	assert.ErrorIs(t, err, ErrDuplicate)

	stored, err := stores.Users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, original.ID, stored.ID)
	assert.Equal(t, "first", stored.Password)
}

func TestGormUserRepository_NotFound(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))

	_, err := stores.Users.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = stores.Users.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormFoodRepository_ListAndSearch(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	ctx := context.Background()

	empty, err := stores.Foods.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, stores.Foods.CreateMany(ctx, []models.Food{
		{Name: "Pineapple", Carbohydrates: 13},
		{Name: "Apple", Carbohydrates: 14},
		{Name: "Banana", Carbohydrates: 23},
		{Name: "100% Juice", Carbohydrates: 10},
	}))

	all, err := stores.Foods.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "100% Juice", all[0].Name)
	assert.Equal(t, "Apple", all[1].Name)

	matches, err := stores.Foods.SearchByName(ctx, "APPLE")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Apple", matches[0].Name)
	assert.Equal(t, "Pineapple", matches[1].Name)

	literal, err := stores.Foods.SearchByName(ctx, "%")
	require.NoError(t, err)
	require.Len(t, literal, 1, "wildcards in the term are matched literally")
	assert.Equal(t, "100% Juice", literal[0].Name)

	none, err := stores.Foods.SearchByName(ctx, "kiwi")
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := stores.Foods.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestGormFoodRepository_FindByID(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	_, food := seedUserAndFood(t, stores)

	got, err := stores.Foods.FindByID(context.Background(), food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple", got.Name)

	_, err = stores.Foods.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormTrackingRepository_DayBoundsAreInclusive(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	ctx := context.Background()
	user, food := seedUserAndFood(t, stores)

	loc := time.UTC
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)
	end := time.Date(2024, 1, 15, 23, 59, 59, int(999*time.Millisecond), loc)

	for _, eaten := range []time.Time{
		start.Add(-time.Millisecond),
		start,
		time.Date(2024, 1, 15, 12, 30, 0, 0, loc),
		end,
		time.Date(2024, 1, 16, 0, 0, 0, 0, loc),
	} {
		require.NoError(t, stores.Trackings.Create(ctx, &models.Tracking{
			UserID: user.ID, FoodID: food.ID, Quantity: 1, EatenDate: eaten,
		}))
	}

	records, err := stores.Trackings.FindByUserBetween(ctx, user.ID, start, end)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].EatenDate.Equal(start))
	assert.True(t, records[2].EatenDate.Equal(end))
}

func TestGormTrackingRepository_ResolvesReferences(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	ctx := context.Background()
	user, food := seedUserAndFood(t, stores)

	eaten := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, stores.Trackings.Create(ctx, &models.Tracking{
		UserID: user.ID, FoodID: food.ID, Quantity: 2, EatenDate: eaten,
	}))

	records, err := stores.Trackings.FindByUserBetween(ctx, user.ID, eaten.Add(-time.Hour), eaten.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 2, rec.Quantity)
	require.NotNil(t, rec.User)
	assert.Equal(t, "a@x.com", rec.User.Email)
	assert.Empty(t, rec.User.Password, "only id and email are loaded for the joined user")
	require.NotNil(t, rec.Food)
	assert.Equal(t, "Apple", rec.Food.Name)
	assert.Equal(t, 14.0, rec.Food.Carbohydrates)
}

func TestGormTrackingRepository_ScopedToUser(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	ctx := context.Background()
	user, food := seedUserAndFood(t, stores)

	other := &models.User{Email: "b@x.com", Password: "d"}
	require.NoError(t, stores.Users.Create(ctx, other))

	eaten := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, stores.Trackings.Create(ctx, &models.Tracking{UserID: other.ID, FoodID: food.ID, Quantity: 1, EatenDate: eaten}))

	records, err := stores.Trackings.FindByUserBetween(ctx, user.ID, eaten.Add(-time.Hour), eaten.Add(time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGormTrackingRepository_RejectsZeroQuantity(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	user, food := seedUserAndFood(t, stores)

	err := stores.Trackings.Create(context.Background(), &models.Tracking{
		UserID: user.ID, FoodID: food.ID, Quantity: 0, EatenDate: time.Now(),
	})
	assert.Error(t, err, "the check constraint backs the service-level validation")
}

func TestGormPinger(t *testing.T) {
	stores := NewGormStores(setupTestDB(t))
	assert.NoError(t, stores.Health.Ping(context.Background()))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "50!% off!_now!!", escapeLike("50% off_now!"))
}
