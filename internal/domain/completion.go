package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutCompletion is the client's report on a scheduled workout.
type WorkoutCompletion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseCompletion marks which sets of a program exercise were done.
// CompletedSets is indexed like ProgramExercise.Sets.
type ExerciseCompletion struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID     primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	ExerciseID    primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	CompletedSets []bool             `bson:"completedSets" json:"completedSets"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
