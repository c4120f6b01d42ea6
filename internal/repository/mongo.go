package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vanypau15/nutrify-backend/internal/models"
)

const (
	usersCollection     = "users"
	foodsCollection     = "foods"
	trackingsCollection = "trackings"
)

// ConnectMongo opens a client and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// NewMongoStores wires the document-store repositories on db.
func NewMongoStores(db *mongo.Database) Stores {
	users := &MongoUserRepository{col: db.Collection(usersCollection)}
	foods := &MongoFoodRepository{col: db.Collection(foodsCollection)}
	return Stores{
		Users: users,
		Foods: foods,
		Trackings: &MongoTrackingRepository{
			col:   db.Collection(trackingsCollection),
			users: users,
			foods: foods,
		},
		Health: mongoPinger{client: db.Client()},
	}
}

// EnsureMongoIndexes creates the unique email index that backs duplicate
// detection, plus the lookup indexes used by queries.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := db.Collection(foodsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}); err != nil {
		return fmt.Errorf("foods index: %w", err)
	}
	if _, err := db.Collection(trackingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "eatenDate", Value: 1}},
	}); err != nil {
		return fmt.Errorf("trackings index: %w", err)
	}
	return nil
}

type userDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d userDocument) model() (models.User, error) {
	id, err := parseDocumentID(usersCollection, "_id", d.ID)
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, Email: d.Email, Password: d.Password, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}, nil
}

type foodDocument struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Protein       float64   `bson:"protein"`
	Carbohydrates float64   `bson:"carbohydrates"`
	Fat           float64   `bson:"fat"`
	Fiber         float64   `bson:"fiber"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func (d foodDocument) model() (models.Food, error) {
	id, err := parseDocumentID(foodsCollection, "_id", d.ID)
	if err != nil {
		return models.Food{}, err
	}
	return models.Food{
		ID: id, Name: d.Name,
		Protein: d.Protein, Carbohydrates: d.Carbohydrates, Fat: d.Fat, Fiber: d.Fiber,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}

type trackingDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	FoodID    string    `bson:"foodId"`
	Quantity  int       `bson:"quantity"`
	EatenDate time.Time `bson:"eatenDate"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d trackingDocument) model() (models.Tracking, error) {
	id, err := parseDocumentID(trackingsCollection, "_id", d.ID)
	if err != nil {
		return models.Tracking{}, err
	}
	userID, err := parseDocumentID(trackingsCollection, "userId", d.UserID)
	if err != nil {
		return models.Tracking{}, err
	}
	foodID, err := parseDocumentID(trackingsCollection, "foodId", d.FoodID)
	if err != nil {
		return models.Tracking{}, err
	}
	return models.Tracking{
		ID: id, UserID: userID, FoodID: foodID,
		Quantity: d.Quantity, EatenDate: d.EatenDate,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}, nil
}

// ErrCorruptDocument reports a stored document whose id fields are not UUIDs.
var ErrCorruptDocument = errors.New("corrupt document")

func parseDocumentID(collection, field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s.%s %q: %v", ErrCorruptDocument, collection, field, value, err)
	}
	return id, nil
}

type MongoUserRepository struct {
	col *mongo.Collection
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = now, now

	_, err := r.col.InsertOne(ctx, userDocument{
		ID: user.ID.String(), Email: user.Email, Password: user.Password,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("mongo insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoNotFound(err, "find user")
	}
	user, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type MongoFoodRepository struct {
	col *mongo.Collection
}

func (r *MongoFoodRepository) List(ctx context.Context) ([]models.Food, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoFoodRepository) SearchByName(ctx context.Context, term string) ([]models.Food, error) {
	return r.find(ctx, nameSearchFilter(term))
}

func (r *MongoFoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var doc foodDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, mongoNotFound(err, "find food")
	}
	food, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *MongoFoodRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count foods: %w", err)
	}
	return n, nil
}

func (r *MongoFoodRepository) CreateMany(ctx context.Context, foods []models.Food) error {
	if len(foods) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(foods))
	for i := range foods {
		if foods[i].ID == uuid.Nil {
			foods[i].ID = uuid.New()
		}
		foods[i].CreatedAt, foods[i].UpdatedAt = now, now
		f := foods[i]
		docs = append(docs, foodDocument{
			ID: f.ID.String(), Name: f.Name,
			Protein: f.Protein, Carbohydrates: f.Carbohydrates, Fat: f.Fat, Fiber: f.Fiber,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo insert foods: %w", err)
	}
	return nil
}

func (r *MongoFoodRepository) find(ctx context.Context, filter bson.M) ([]models.Food, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find foods: %w", err)
	}
	defer cur.Close(ctx)

	var docs []foodDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode foods: %w", err)
	}
	foods := make([]models.Food, 0, len(docs))
	for _, d := range docs {
		food, err := d.model()
		if err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}
	return foods, nil
}

func (r *MongoFoodRepository) findByIDs(ctx context.Context, ids []string) (map[string]models.Food, error) {
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("mongo find foods: %w", err)
	}
	defer cur.Close(ctx)

	var docs []foodDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode foods: %w", err)
	}
	byID := make(map[string]models.Food, len(docs))
	for _, d := range docs {
		food, err := d.model()
		if err != nil {
			return nil, err
		}
		byID[d.ID] = food
	}
	return byID, nil
}

type MongoTrackingRepository struct {
	col   *mongo.Collection
	users *MongoUserRepository
	foods *MongoFoodRepository
}

func (r *MongoTrackingRepository) Create(ctx context.Context, record *models.Tracking) error {
	now := time.Now()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.EatenDate = record.EatenDate.UTC()
	record.CreatedAt, record.UpdatedAt = now, now

	_, err := r.col.InsertOne(ctx, trackingDocument{
		ID: record.ID.String(), UserID: record.UserID.String(), FoodID: record.FoodID.String(),
		Quantity: record.Quantity, EatenDate: record.EatenDate,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("mongo insert tracking: %w", err)
	}
	return nil
}

func (r *MongoTrackingRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Tracking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "eatenDate", Value: 1}, {Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, eatenBetweenFilter(userID, from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find trackings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []trackingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode trackings: %w", err)
	}
	records := make([]models.Tracking, 0, len(docs))
	if len(docs) == 0 {
		return records, nil
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	foods, err := r.foods.findByIDs(ctx, distinctFoodIDs(docs))
	if err != nil {
		return nil, err
	}

	for _, d := range docs {
		rec, err := d.model()
		if err != nil {
			return nil, err
		}
		if user != nil {
			rec.User = &models.User{ID: user.ID, Email: user.Email}
		}
		if food, ok := foods[d.FoodID]; ok {
			rec.Food = &food
		}
		records = append(records, rec)
	}
	return records, nil
}

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}

func nameSearchFilter(term string) bson.M {
	return bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
}

func eatenBetweenFilter(userID uuid.UUID, from, to time.Time) bson.M {
	return bson.M{
		"userId":    userID.String(),
		"eatenDate": bson.M{"$gte": from.UTC(), "$lte": to.UTC()},
	}
}

func distinctFoodIDs(docs []trackingDocument) []string {
	seen := make(map[string]struct{}, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.FoodID]; ok {
			continue
		}
		seen[d.FoodID] = struct{}{}
		ids = append(ids, d.FoodID)
	}
	return ids
}

func mongoNotFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}
