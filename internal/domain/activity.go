package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityEntry is non-training activity of one type on one day.
type ActivityEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID        primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date            string             `bson:"date" json:"date"`
	ActivityType    string             `bson:"activityType" json:"activityType"`
	DurationMinutes int                `bson:"durationMinutes" json:"durationMinutes"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodNeutral  Mood = "neutral"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodNeutral, MoodBad, MoodTerrible:
		return true
	}
	return false
}

// ActivityTypes offered by the activity form.
var ActivityTypes = []string{
	"Cleaning",
	"Walking",
	"Shopping",
	"Housework",
	"Playing with kids",
	"Gardening",
	"Other",
}

// DailyStat is the once-per-day wellbeing check-in.
// WaterMl is kept and persisted even though the form hides it.
type DailyStat struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date        string             `bson:"date" json:"date"`
	SleepHours  float64            `bson:"sleepHours" json:"sleepHours"`
	WaterMl     int                `bson:"waterMl" json:"waterMl"`
	Mood        Mood               `bson:"mood" json:"mood"`
	StressLevel int                `bson:"stressLevel" json:"stressLevel"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
