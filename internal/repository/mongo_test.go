package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanypau15/nutrify-backend/internal/models"
)

func TestNameSearchFilter_QuotesTerm(t *testing.T) {
	f := nameSearchFilter("a.b(c")

	re, ok := f["name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `a\.b\(c`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestEatenBetweenFilter(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)
	to := time.Date(2024, 1, 15, 23, 59, 59, int(999*time.Millisecond), loc)
	userID := uuid.New()

	f := eatenBetweenFilter(userID, from, to)

	assert.Equal(t, userID.String(), f["userId"])
	rng, ok := f["eatenDate"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, from.UTC(), rng["$gte"])
	assert.Equal(t, to.UTC(), rng["$lte"])
}

func TestDistinctFoodIDs(t *testing.T) {
	docs := []trackingDocument{{FoodID: "a"}, {FoodID: "b"}, {FoodID: "a"}}
	assert.Equal(t, []string{"a", "b"}, distinctFoodIDs(docs))
}

func TestDocumentModels_RejectCorruptIDs(t *testing.T) {
	good := uuid.New().String()

	_, err := userDocument{ID: "not-a-uuid"}.model()
	assert.ErrorIs(t, err, ErrCorruptDocument)

	_, err = foodDocument{ID: ""}.model()
	assert.ErrorIs(t, err, ErrCorruptDocument)

	_, err = trackingDocument{ID: good, UserID: good, FoodID: "bad"}.model()
	assert.ErrorIs(t, err, ErrCorruptDocument)
	assert.Contains(t, err.Error(), "trackings.foodId")

	rec, err := trackingDocument{ID: good, UserID: good, FoodID: good, Quantity: 2}.model()
	require.NoError(t, err)
	assert.Equal(t, good, rec.FoodID.String())
	assert.Equal(t, 2, rec.Quantity)
}

// TestMongoStores_Live exercises the document store end to end. It runs only
// when MONGO_TEST_URI points at a disposable server.
func TestMongoStores_Live(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()

	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)
	db := client.Database("nutrify_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	require.NoError(t, EnsureMongoIndexes(ctx, db))
	stores := NewMongoStores(db)

	user := &models.User{Email: "a@x.com", Password: "digest"}
	require.NoError(t, stores.Users.Create(ctx, user))
	assert.ErrorIs(t, stores.Users.Create(ctx, &models.User{Email: "a@x.com", Password: "x"}), ErrDuplicate)

	foods := []models.Food{{Name: "Apple", Carbohydrates: 14}, {Name: "Pineapple", Carbohydrates: 13}}
	require.NoError(t, stores.Foods.CreateMany(ctx, foods))

	matches, err := stores.Foods.SearchByName(ctx, "APPLE")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	for _, eaten := range []time.Time{end, end.Add(time.Millisecond)} {
		require.NoError(t, stores.Trackings.Create(ctx, &models.Tracking{
			UserID: user.ID, FoodID: foods[0].ID, Quantity: 2, EatenDate: eaten,
		}))
	}

	records, err := stores.Trackings.FindByUserBetween(ctx, user.ID, start, end)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Food)
	assert.Equal(t, "Apple", records[0].Food.Name)
	require.NotNil(t, records[0].User)
	assert.Equal(t, "a@x.com", records[0].User.Email)

	assert.NoError(t, stores.Health.Ping(ctx))
}
