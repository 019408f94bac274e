package service

import (
	"context"
	"testing"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExerciseNormalizesTags(t *testing.T) {
	svc := NewExerciseService(newFakeExercises())
	trainerID := newID()

	ex, err := svc.CreateExercise(context.Background(), trainerID, ExerciseInput{
		Name:         "  Deadlift ",
		MuscleGroups: []string{"Back", " hamstrings", "back", ""},
		Equipment:    []string{"Barbell"},
		Difficulty:   domain.DifficultyAdvanced,
	})
	require.NoError(t, err)
	assert.Equal(t, "Deadlift", ex.Name)
	assert.Equal(t, []string{"Back", "hamstrings"}, ex.MuscleGroups)
	assert.Equal(t, []string{"Barbell"}, ex.Equipment)
	assert.Equal(t, domain.DifficultyAdvanced, ex.Difficulty)
}

func TestExerciseValidation(t *testing.T) {
	svc := NewExerciseService(newFakeExercises())
	ctx := context.Background()

	_, err := svc.CreateExercise(ctx, newID(), ExerciseInput{Name: " "})
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = svc.CreateExercise(ctx, newID(), ExerciseInput{Name: "Plank", Difficulty: "expert"})
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = svc.GetExercisesByTrainer(ctx, newID(), repository.ExerciseFilter{Difficulty: "expert"})
	assert.True(t, IsValidation(err), "got %v", err)
}

func TestGetExercisesByTrainerFilters(t *testing.T) {
	trainerID := newID()
	exercises := newFakeExercises(
		domain.Exercise{ID: newID(), TrainerID: trainerID, Name: "Squat", MuscleGroups: []string{"Legs"}, Equipment: []string{"Barbell"}, Difficulty: domain.DifficultyIntermediate},
		domain.Exercise{ID: newID(), TrainerID: trainerID, Name: "Lunge", MuscleGroups: []string{"Legs", "Glutes"}, Difficulty: domain.DifficultyBeginner},
		domain.Exercise{ID: newID(), TrainerID: trainerID, Name: "Row", MuscleGroups: []string{"Back"}, Equipment: []string{"Barbell"}, Difficulty: domain.DifficultyIntermediate},
		domain.Exercise{ID: newID(), TrainerID: newID(), Name: "Leg press", MuscleGroups: []string{"Legs"}},
	)
	svc := NewExerciseService(exercises)
	ctx := context.Background()

	names := func(filter repository.ExerciseFilter) []string {
		t.Helper()
		list, err := svc.GetExercisesByTrainer(ctx, trainerID, filter)
		require.NoError(t, err)
		var out []string
		for _, e := range list {
			out = append(out, e.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Lunge", "Row", "Squat"}, names(repository.ExerciseFilter{}))
	assert.Equal(t, []string{"Lunge", "Squat"}, names(repository.ExerciseFilter{MuscleGroup: " legs "}))
	assert.Equal(t, []string{"Row", "Squat"}, names(repository.ExerciseFilter{Equipment: "barbell"}))
	assert.Equal(t, []string{"Squat"}, names(repository.ExerciseFilter{MuscleGroup: "Legs", Difficulty: domain.DifficultyIntermediate}))
	assert.Empty(t, names(repository.ExerciseFilter{Difficulty: domain.DifficultyAdvanced}))
}

func TestUpdateExerciseReplacesCatalogueFields(t *testing.T) {
	trainerID := newID()
	squat := domain.Exercise{ID: newID(), TrainerID: trainerID, Name: "Squat", MuscleGroups: []string{"Legs"}, Equipment: []string{"Barbell"}}
	svc := NewExerciseService(newFakeExercises(squat))
	ctx := context.Background()

	ex, err := svc.UpdateExercise(ctx, trainerID, squat.ID, ExerciseInput{Name: "Goblet squat", MuscleGroups: []string{"Legs", "Core"}, Equipment: []string{"Kettlebell"}, Difficulty: domain.DifficultyBeginner})
	require.NoError(t, err)
	assert.Equal(t, []string{"Legs", "Core"}, ex.MuscleGroups)
	assert.Equal(t, []string{"Kettlebell"}, ex.Equipment)
	assert.Equal(t, domain.DifficultyBeginner, ex.Difficulty)

	_, err = svc.UpdateExercise(ctx, newID(), squat.ID, ExerciseInput{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)
}
