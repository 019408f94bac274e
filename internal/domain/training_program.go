package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgramStatus string

const (
	ProgramActive   ProgramStatus = "active"
	ProgramArchived ProgramStatus = "archived"
)

// TrainingProgram is an ordered list of exercises built by a trainer.
// Workouts reference programs, they never own them.
type TrainingProgram struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	ClientID    *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Status      ProgramStatus       `bson:"status" json:"status"`
	Exercises   []ProgramExercise   `bson:"exercises" json:"exercises"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ProgramExercise places a library exercise inside a program.
type ProgramExercise struct {
	ExerciseID   primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	Order        int                `bson:"order" json:"order"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Sets         []ExerciseSet      `bson:"sets" json:"sets"`
}

// ExerciseSet is a target for one set. Reps is either "10" or a "8-12" range,
// Weight is free text as typed by the trainer ("50", "" for bodyweight).
type ExerciseSet struct {
	SetNumber int    `bson:"setNumber" json:"setNumber"`
	Reps      string `bson:"reps" json:"reps"`
	Weight    string `bson:"weight,omitempty" json:"weight,omitempty"`
}
