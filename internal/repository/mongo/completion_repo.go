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
	workoutCompletionCollectionName  = "workout_completions"
	exerciseCompletionCollectionName = "exercise_completions"
)

// mongoCompletionRepository implements repository.CompletionRepository over two collections.
type mongoCompletionRepository struct {
	workouts  *mongo.Collection
	exercises *mongo.Collection
}

func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		workouts:  db.Collection(workoutCompletionCollectionName),
		exercises: db.Collection(exerciseCompletionCollectionName),
	}
}

// UpsertWorkoutCompletion overwrites the report of (workout, client).
func (r *mongoCompletionRepository) UpsertWorkoutCompletion(ctx context.Context, completion *domain.WorkoutCompletion) error {
	if completion.WorkoutID == primitive.NilObjectID || completion.ClientID == primitive.NilObjectID {
		return errors.New("completion requires workoutId and clientId")
	}
	completion.UpdatedAt = time.Now().UTC()

	filter := bson.M{"workoutId": completion.WorkoutID, "clientId": completion.ClientID}
	update := bson.M{
		"$set": bson.M{
			"completed":   completion.Completed,
			"completedAt": completion.CompletedAt,
			"notes":       completion.Notes,
			"updatedAt":   completion.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}

	_, err := r.workouts.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	return nil
}

func (r *mongoCompletionRepository) GetWorkoutCompletion(ctx context.Context, workoutID, clientID primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	var completion domain.WorkoutCompletion
	err := r.workouts.FindOne(ctx, bson.M{"workoutId": workoutID, "clientId": clientID}).Decode(&completion)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *mongoCompletionRepository) GetWorkoutCompletionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	cursor, err := r.workouts.Find(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.WorkoutCompletion](ctx, cursor)
}

func (r *mongoCompletionRepository) ReplaceExerciseCompletions(ctx context.Context, workoutID, clientID primitive.ObjectID, completions []domain.ExerciseCompletion) error {
	if _, err := r.exercises.DeleteMany(ctx, bson.M{"workoutId": workoutID, "clientId": clientID}); err != nil {
		return err
	}
	if len(completions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(completions))
	for i := range completions {
		completions[i].ID = primitive.NewObjectID()
		completions[i].WorkoutID = workoutID
		completions[i].ClientID = clientID
		completions[i].UpdatedAt = now
		docs[i] = completions[i]
	}

	_, err := r.exercises.InsertMany(ctx, docs)
	return err
}

func (r *mongoCompletionRepository) GetExerciseCompletionsByWorkout(ctx context.Context, workoutID, clientID primitive.ObjectID) ([]domain.ExerciseCompletion, error) {
	cursor, err := r.exercises.Find(ctx, bson.M{"workoutId": workoutID, "clientId": clientID})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.ExerciseCompletion](ctx, cursor)
}

func (r *mongoCompletionRepository) GetExerciseCompletionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExerciseCompletion, error) {
	cursor, err := r.exercises.Find(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.ExerciseCompletion](ctx, cursor)
}

// EnsureWorkoutCompletionIndexes makes (workoutId, clientId) unique.
func EnsureWorkoutCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, mongo.IndexModel{
		Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "clientId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}

func EnsureExerciseCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection,
		mongo.IndexModel{Keys: bson.D{{Key: "workoutId", Value: 1}, {Key: "clientId", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "clientId", Value: 1}}},
	)
}
