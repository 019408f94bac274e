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

const (
	activityCollectionName  = "client_activities"
	dailyStatCollectionName = "client_daily_stats"
)

type mongoActivityRepository struct {
	collection *mongo.Collection
}

func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

func (r *mongoActivityRepository) GetByClientAndDate(ctx context.Context, clientID primitive.ObjectID, date string) ([]domain.ActivityEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID, "date": date})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.ActivityEntry](ctx, cursor)
}

func (r *mongoActivityRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ActivityEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.ActivityEntry](ctx, cursor)
}

func (r *mongoActivityRepository) ReplaceForDay(ctx context.Context, clientID primitive.ObjectID, date string, entries []domain.ActivityEntry) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"clientId": clientID, "date": date}); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(entries))
	for i := range entries {
		entries[i].ID = primitive.NewObjectID()
		entries[i].ClientID = clientID
		entries[i].Date = date
		entries[i].CreatedAt = now
		docs[i] = entries[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, clientIndex("date"))
}

type mongoDailyStatRepository struct {
	collection *mongo.Collection
}

func NewMongoDailyStatRepository(db *mongo.Database) repository.DailyStatRepository {
	return &mongoDailyStatRepository{
		collection: db.Collection(dailyStatCollectionName),
	}
}

func (r *mongoDailyStatRepository) Upsert(ctx context.Context, stat *domain.DailyStat) error {
	if stat.ClientID == primitive.NilObjectID || stat.Date == "" {
		return errors.New("daily stat requires clientId and date")
	}
	stat.UpdatedAt = time.Now().UTC()

	filter := bson.M{"clientId": stat.ClientID, "date": stat.Date}
	update := bson.M{
		"$set": bson.M{
			"sleepHours":  stat.SleepHours,
			"waterMl":     stat.WaterMl,
			"mood":        stat.Mood,
			"stressLevel": stat.StressLevel,
			"notes":       stat.Notes,
			"updatedAt":   stat.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoDailyStatRepository) GetByClientAndDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.DailyStat, error) {
	var stat domain.DailyStat
	err := r.collection.FindOne(ctx, bson.M{"clientId": clientID, "date": date}).Decode(&stat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &stat, nil
}

func (r *mongoDailyStatRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.DailyStat, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.DailyStat](ctx, cursor)
}

func EnsureDailyStatIndexes(ctx context.Context, collection *mongo.Collection) error {
	idx := clientIndex("date")
	idx.Options = options.Index().SetUnique(true)
	return createIndexes(ctx, collection, idx)
}
