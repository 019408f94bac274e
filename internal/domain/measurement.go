package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement holds tape and scale metrics. Unset values stay nil.
type Measurement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date      time.Time          `bson:"date" json:"date"`
	Weight    *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Height    *float64           `bson:"height,omitempty" json:"height,omitempty"`
	Chest     *float64           `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist     *float64           `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips      *float64           `bson:"hips,omitempty" json:"hips,omitempty"`
	Biceps    *float64           `bson:"biceps,omitempty" json:"biceps,omitempty"`
	Calves    *float64           `bson:"calves,omitempty" json:"calves,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BodyComposition is a lab (InBody style) measurement.
type BodyComposition struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID             primitive.ObjectID `bson:"clientId" json:"clientId"`
	MeasurementDate      time.Time          `bson:"measurementDate" json:"measurementDate"`
	Age                  *int               `bson:"age,omitempty" json:"age,omitempty"`
	Gender               string             `bson:"gender,omitempty" json:"gender,omitempty"`
	HeightCm             *float64           `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg             *float64           `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	BMI                  *float64           `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BodyFatPercent       *float64           `bson:"bodyFatPercent,omitempty" json:"bodyFatPercent,omitempty"`
	FatMassKg            *float64           `bson:"fatMassKg,omitempty" json:"fatMassKg,omitempty"`
	SkeletalMuscleMassKg *float64           `bson:"skeletalMuscleMassKg,omitempty" json:"skeletalMuscleMassKg,omitempty"`
	WaterPercentage      *float64           `bson:"waterPercentage,omitempty" json:"waterPercentage,omitempty"`
	VisceralFatLevel     *int               `bson:"visceralFatLevel,omitempty" json:"visceralFatLevel,omitempty"`
	BasalMetabolicRate   *float64           `bson:"basalMetabolicRateKcal,omitempty" json:"basalMetabolicRateKcal,omitempty"`
	InbodyScore          *int               `bson:"inbodyScore,omitempty" json:"inbodyScore,omitempty"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
