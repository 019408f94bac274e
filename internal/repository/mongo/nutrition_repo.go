package mongo

import (
	"context"
	"errors"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const nutritionCollectionName = "client_nutrition"

type mongoNutritionRepository struct {
	collection *mongo.Collection
}

func NewMongoNutritionRepository(db *mongo.Database) repository.NutritionRepository {
	return &mongoNutritionRepository{
		collection: db.Collection(nutritionCollectionName),
	}
}

// Upsert writes the day's totals, keeping already attached photos.
func (r *mongoNutritionRepository) Upsert(ctx context.Context, entry *domain.NutritionEntry) error {
	if entry.ClientID == primitive.NilObjectID || entry.Date == "" {
		return errors.New("nutrition entry requires clientId and date")
	}
	now := time.Now().UTC()
	entry.UpdatedAt = now

	filter := bson.M{"clientId": entry.ClientID, "date": entry.Date}
	update := bson.M{
		"$set": bson.M{
			"proteins":  entry.Proteins,
			"fats":      entry.Fats,
			"carbs":     entry.Carbs,
			"calories":  entry.Calories,
			"water":     entry.Water,
			"notes":     entry.Notes,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "createdAt": now},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoNutritionRepository) GetByClientAndDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.NutritionEntry, error) {
	var entry domain.NutritionEntry
	err := r.collection.FindOne(ctx, bson.M{"clientId": clientID, "date": date}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByClientID lists entries newest day first.
func (r *mongoNutritionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.NutritionEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.NutritionEntry](ctx, cursor)
}

func (r *mongoNutritionRepository) AddPhotoKeys(ctx context.Context, clientID primitive.ObjectID, date string, keys []string) error {
	filter := bson.M{"clientId": clientID, "date": date}
	update := bson.M{
		"$push": bson.M{"photoKeys": bson.M{"$each": keys}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	return updatedOne(r.collection.UpdateOne(ctx, filter, update))
}

// EnsureNutritionIndexes keeps one entry per client and day.
func EnsureNutritionIndexes(ctx context.Context, collection *mongo.Collection) error {
	idx := clientIndex("date")
	idx.Options = options.Index().SetUnique(true)
	return createIndexes(ctx, collection, idx)
}
