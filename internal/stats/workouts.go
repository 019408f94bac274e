package stats

import (
	"math"
	"sort"
	"time"

	"hardcase/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoriteLimit caps the favorite exercises list.
const FavoriteLimit = 5

type WorkoutInput struct {
	Workouts            []domain.Workout
	Completions         []domain.WorkoutCompletion
	ExerciseCompletions []domain.ExerciseCompletion
	Programs            []domain.TrainingProgram
	// Location used for the month keys, UTC when nil.
	Location *time.Location
}

type ExerciseCount struct {
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type WorkoutStats struct {
	TotalWorkouts     int             `json:"totalWorkouts"`
	CompletedWorkouts int             `json:"completedWorkouts"`
	CompletionRate    float64         `json:"completionRate"`
	TotalExercises    int             `json:"totalExercises"`
	TotalSets         int             `json:"totalSets"`
	TotalVolume       int             `json:"totalVolume"`
	FavoriteExercises []ExerciseCount `json:"favoriteExercises"`
	WorkoutsPerMonth  []MonthCount    `json:"workoutsPerMonth"`
}

// Workouts computes totals, completion rate, lifted volume and favorites.
//
// Volume only counts sets marked done: each exercise completion is matched
// with the first program exercise of the same exercise among the programs
// linked to completed workouts, and every completedSets[i] that has a
// matching target set i adds ParseReps*ParseWeight.
func Workouts(in WorkoutInput) WorkoutStats {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	stats := WorkoutStats{
		TotalWorkouts:     len(in.Workouts),
		FavoriteExercises: []ExerciseCount{},
		WorkoutsPerMonth:  []MonthCount{},
	}

	completed := make(map[primitive.ObjectID]bool)
	for _, c := range in.Completions {
		if c.Completed {
			stats.CompletedWorkouts++
			completed[c.WorkoutID] = true
		}
	}
	stats.CompletionRate = percent(float64(stats.CompletedWorkouts), float64(stats.TotalWorkouts))

	byMonth := make(map[string]int)
	for _, w := range in.Workouts {
		byMonth[w.StartTime.In(loc).Format("2006-01")]++
	}
	for month, count := range byMonth {
		stats.WorkoutsPerMonth = append(stats.WorkoutsPerMonth, MonthCount{Month: month, Count: count})
	}
	sort.Slice(stats.WorkoutsPerMonth, func(i, j int) bool {
		return stats.WorkoutsPerMonth[i].Month < stats.WorkoutsPerMonth[j].Month
	})

	exercises := linkedProgramExercises(in, completed)

	var volume float64
	var order []primitive.ObjectID
	counts := make(map[primitive.ObjectID]*ExerciseCount)
	for _, ec := range in.ExerciseCompletions {
		pe, ok := exercises[ec.ExerciseID]
		if !ok {
			continue
		}

		fav, seen := counts[ec.ExerciseID]
		if !seen {
			fav = &ExerciseCount{ExerciseID: ec.ExerciseID.Hex(), Name: pe.ExerciseName}
			counts[ec.ExerciseID] = fav
			order = append(order, ec.ExerciseID)
		}
		fav.Count++

		for i, done := range ec.CompletedSets {
			if !done || i >= len(pe.Sets) {
				continue
			}
			stats.TotalSets++
			volume += float64(ParseReps(pe.Sets[i].Reps)) * ParseWeight(pe.Sets[i].Weight)
		}
	}
	stats.TotalVolume = int(math.Round(volume))
	stats.TotalExercises = len(order)

	for _, id := range order {
		stats.FavoriteExercises = append(stats.FavoriteExercises, *counts[id])
	}
	// stable keeps first-encountered order among equal counts
	sort.SliceStable(stats.FavoriteExercises, func(i, j int) bool {
		return stats.FavoriteExercises[i].Count > stats.FavoriteExercises[j].Count
	})
	if len(stats.FavoriteExercises) > FavoriteLimit {
		stats.FavoriteExercises = stats.FavoriteExercises[:FavoriteLimit]
	}

	return stats
}

// linkedProgramExercises indexes, per exercise id, the first program exercise
// found in programs referenced by completed workouts.
func linkedProgramExercises(in WorkoutInput, completed map[primitive.ObjectID]bool) map[primitive.ObjectID]domain.ProgramExercise {
	linked := make(map[primitive.ObjectID]bool)
	for _, w := range in.Workouts {
		if completed[w.ID] && w.TrainingProgramID != nil {
			linked[*w.TrainingProgramID] = true
		}
	}

	exercises := make(map[primitive.ObjectID]domain.ProgramExercise)
	for _, p := range in.Programs {
		if !linked[p.ID] {
			continue
		}
		for _, pe := range p.Exercises {
			if _, ok := exercises[pe.ExerciseID]; !ok {
				exercises[pe.ExerciseID] = pe
			}
		}
	}
	return exercises
}
