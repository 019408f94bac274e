package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultWorkoutTitle is used when the trainer leaves the title empty.
const DefaultWorkoutTitle = "Personal training"

// Workout is a scheduled session between a trainer and a client.
type Workout struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClientID          primitive.ObjectID  `bson:"clientId" json:"clientId"`
	TrainerID         primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	StartTime         time.Time           `bson:"startTime" json:"startTime"`
	EndTime           time.Time           `bson:"endTime" json:"endTime"`
	Title             string              `bson:"title" json:"title"`
	TrainingProgramID *primitive.ObjectID `bson:"trainingProgramId,omitempty" json:"trainingProgramId,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Duration of the session.
func (w *Workout) Duration() time.Duration {
	return w.EndTime.Sub(w.StartTime)
}
