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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout. Working-hours validation happens before this call.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.TrainerID == primitive.NilObjectID || workout.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout requires trainerId and clientId")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return primitive.NilObjectID, err
	}
	return workout.ID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	filter := bson.M{"_id": workout.ID, "trainerId": workout.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"clientId":          workout.ClientID,
			"startTime":         workout.StartTime,
			"endTime":           workout.EndTime,
			"title":             workout.Title,
			"trainingProgramId": workout.TrainingProgramID,
			"updatedAt":         time.Now().UTC(),
		},
	}

	return updatedOne(r.collection.UpdateOne(ctx, filter, update))
}

// Delete cancels a workout owned by the trainer.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrDeleteFailed
	}
	return nil
}

func (r *mongoWorkoutRepository) GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error) {
	filter := bson.M{
		"trainerId": trainerID,
		"startTime": bson.M{"$gte": from, "$lt": to},
	}
	return r.find(ctx, filter)
}

func (r *mongoWorkoutRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

func (r *mongoWorkoutRepository) GetNextForClient(ctx context.Context, clientID primitive.ObjectID, after time.Time) (*domain.Workout, error) {
	filter := bson.M{"clientId": clientID, "startTime": bson.M{"$gte": after}}
	return r.findOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "startTime", Value: 1}}))
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M) ([]domain.Workout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Workout](ctx, cursor)
}

func (r *mongoWorkoutRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Workout, error) {
	var workout domain.Workout
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&workout)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&workout)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// EnsureWorkoutIndexes covers the calendar range query and the client timeline.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection,
		mongo.IndexModel{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "startTime", Value: 1}}},
		clientIndex("startTime"),
	)
}
