package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the day key used by per-day records.
const DateLayout = "2006-01-02"

// NutritionEntry holds one day of macro totals.
// Water is persisted as entered; nothing derives behaviour from it yet.
type NutritionEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date      string             `bson:"date" json:"date"`
	Proteins  float64            `bson:"proteins" json:"proteins"`
	Fats      float64            `bson:"fats" json:"fats"`
	Carbs     float64            `bson:"carbs" json:"carbs"`
	Calories  float64            `bson:"calories" json:"calories"`
	Water     float64            `bson:"water" json:"water"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PhotoKeys []string           `bson:"photoKeys,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
