package repository

import (
	"context"
	"strings"
	"time"

	"hardcase/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrDuplicate    = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// ExerciseFilter narrows a library listing. Empty fields match everything;
// tags compare case-insensitively.
type ExerciseFilter struct {
	MuscleGroup string
	Equipment   string
	Difficulty  domain.Difficulty
}

func (f ExerciseFilter) Matches(ex domain.Exercise) bool {
	if f.Difficulty != "" && ex.Difficulty != f.Difficulty {
		return false
	}
	return hasTag(ex.MuscleGroups, f.MuscleGroup) && hasTag(ex.Equipment, f.Equipment)
}

func hasTag(tags []string, want string) bool {
	if want == "" {
		return true
	}
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

// ExerciseRepository defines the interface for the trainer exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, filter ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure trainer owns the exercise
}

// TrainingProgramRepository stores programs with their embedded exercises and sets.
type TrainingProgramRepository interface {
	Create(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingProgram, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.TrainingProgram, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingProgram, error)
	Update(ctx context.Context, program *domain.TrainingProgram) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error
}

// WorkoutRepository defines the interface for scheduled workouts.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error
	// GetByTrainerInRange returns workouts starting in [from, to), sorted by start time.
	GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Workout, error)
	// GetNextForClient returns the first workout starting at or after the given instant.
	GetNextForClient(ctx context.Context, clientID primitive.ObjectID, after time.Time) (*domain.Workout, error)
}

// CompletionRepository stores workout and per-exercise completion reports.
type CompletionRepository interface {
	UpsertWorkoutCompletion(ctx context.Context, completion *domain.WorkoutCompletion) error
	GetWorkoutCompletion(ctx context.Context, workoutID, clientID primitive.ObjectID) (*domain.WorkoutCompletion, error)
	GetWorkoutCompletionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutCompletion, error)
	// ReplaceExerciseCompletions drops the previous report of the workout and stores the new one.
	ReplaceExerciseCompletions(ctx context.Context, workoutID, clientID primitive.ObjectID, completions []domain.ExerciseCompletion) error
	GetExerciseCompletionsByWorkout(ctx context.Context, workoutID, clientID primitive.ObjectID) ([]domain.ExerciseCompletion, error)
	GetExerciseCompletionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExerciseCompletion, error)
}

// MeasurementRepository returns measurements sorted by date ascending.
type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, clientID primitive.ObjectID) (*domain.Measurement, error)
	Update(ctx context.Context, m *domain.Measurement) error
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error)
}

type BodyCompositionRepository interface {
	Create(ctx context.Context, bc *domain.BodyComposition) (primitive.ObjectID, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.BodyComposition, error)
}

// NutritionRepository keeps one entry per client and day.
type NutritionRepository interface {
	Upsert(ctx context.Context, entry *domain.NutritionEntry) error
	GetByClientAndDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.NutritionEntry, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.NutritionEntry, error)
	AddPhotoKeys(ctx context.Context, clientID primitive.ObjectID, date string, keys []string) error
}

type ActivityRepository interface {
	GetByClientAndDate(ctx context.Context, clientID primitive.ObjectID, date string) ([]domain.ActivityEntry, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ActivityEntry, error)
	// ReplaceForDay deletes the day's rows and inserts entries in their place.
	ReplaceForDay(ctx context.Context, clientID primitive.ObjectID, date string, entries []domain.ActivityEntry) error
}

type DailyStatRepository interface {
	Upsert(ctx context.Context, stat *domain.DailyStat) error
	GetByClientAndDate(ctx context.Context, clientID primitive.ObjectID, date string) (*domain.DailyStat, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.DailyStat, error)
}

type MedicalRepository interface {
	Create(ctx context.Context, record *domain.MedicalRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, clientID primitive.ObjectID) (*domain.MedicalRecord, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.MedicalRecord, error)
	Delete(ctx context.Context, id, clientID primitive.ObjectID) error
}

// ProgressPhotoRepository stores metadata of uploaded progress photos.
type ProgressPhotoRepository interface {
	CreateMany(ctx context.Context, photos []domain.ProgressPhoto) error
	// GetByClientID returns the client's photos of a folder sorted by capture date.
	GetByClientID(ctx context.Context, clientID primitive.ObjectID, folder string) ([]domain.ProgressPhoto, error)
}
