package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the library.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise name and trainer ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		return primitive.NilObjectID, err
	}
	return exercise.ID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByTrainerID lists a trainer's library sorted by name.
func (r *mongoExerciseRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, exerciseQuery(trainerID, filter), findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Exercise](ctx, cursor)
}

// exerciseQuery matches tag filters against any array element, ignoring case.
func exerciseQuery(trainerID primitive.ObjectID, filter repository.ExerciseFilter) bson.M {
	query := bson.M{"trainerId": trainerID}
	if filter.MuscleGroup != "" {
		query["muscleGroups"] = exactFold(filter.MuscleGroup)
	}
	if filter.Equipment != "" {
		query["equipment"] = exactFold(filter.Equipment)
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	return query
}

func exactFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

// Update modifies an existing exercise. The owner never changes.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}

	filter := bson.M{"_id": exercise.ID, "trainerId": exercise.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"name":             exercise.Name,
			"description":      exercise.Description,
			"muscleGroups":     exercise.MuscleGroups,
			"equipment":        exercise.Equipment,
			"difficulty":       exercise.Difficulty,
			"executionTechnic": exercise.ExecutionTechnic,
			"videoUrl":         exercise.VideoURL,
			"updatedAt":        time.Now().UTC(),
		},
	}

	return updatedOne(r.collection.UpdateOne(ctx, filter, update))
}

// Delete removes an exercise, ensuring it belongs to the specified trainer.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	return deletedOne(r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID}))
}

func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, mongo.IndexModel{
		Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "name", Value: 1}},
	}, mongo.IndexModel{
		Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "muscleGroups", Value: 1}},
	})
}
