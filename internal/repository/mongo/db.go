package mongo

import (
	"context"
	"time"

	"hardcase/coaching-app/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB and verifies it with a ping.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged
// per collection and returned combined; startup may continue without them.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logrus.Logger) error {
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		userCollectionName:               EnsureUserIndexes,
		exerciseCollectionName:           EnsureExerciseIndexes,
		programCollectionName:            EnsureProgramIndexes,
		workoutCollectionName:            EnsureWorkoutIndexes,
		workoutCompletionCollectionName:  EnsureWorkoutCompletionIndexes,
		exerciseCompletionCollectionName: EnsureExerciseCompletionIndexes,
		measurementCollectionName:        EnsureMeasurementIndexes,
		bodyCompositionCollectionName:    EnsureBodyCompositionIndexes,
		nutritionCollectionName:          EnsureNutritionIndexes,
		activityCollectionName:           EnsureActivityIndexes,
		dailyStatCollectionName:          EnsureDailyStatIndexes,
		medicalCollectionName:            EnsureMedicalIndexes,
		photoCollectionName:              EnsurePhotoIndexes,
	}

	var errs error
	for name, fn := range ensure {
		if err := fn(ctx, db.Collection(name)); err != nil {
			log.WithError(err).WithField("collection", name).Warn("failed to create indexes")
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// clientIndex is shared by every client-owned collection.
func clientIndex(sortField string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "clientId", Value: 1}, {Key: sortField, Value: 1}},
	}
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes ...mongo.IndexModel) error {
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// decodeAll drains a cursor into a slice, never returning nil on success.
func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// updatedOne turns an update that matched nothing into repository.ErrNotFound.
func updatedOne(result *mongo.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deletedOne(result *mongo.DeleteResult, err error) error {
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
