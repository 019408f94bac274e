package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid accepts the empty value, which means unrated.
func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Exercise is an entry of a trainer's strength exercise library.
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID        primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroups     []string           `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Equipment        []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Difficulty       Difficulty         `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	ExecutionTechnic string             `bson:"executionTechnic,omitempty" json:"executionTechnic,omitempty"`
	VideoURL         string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
