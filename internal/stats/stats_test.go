package stats

import (
	"testing"
	"time"

	"hardcase/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func f(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestParseReps(t *testing.T) {
	tests := map[string]int{
		"10":    10,
		"8-12":  10,
		"8-11":  10,
		" 6-8 ": 7,
		"12x":   12,
		"":      0,
		"abc":   0,
		"a-b":   0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseReps(in), "ParseReps(%q)", in)
	}
}

func TestParseWeight(t *testing.T) {
	assert.Equal(t, 50.0, ParseWeight("50"))
	assert.Equal(t, 12.5, ParseWeight("12.5kg"))
	assert.Equal(t, 0.0, ParseWeight(""))
	assert.Equal(t, 0.0, ParseWeight("bodyweight"))
}

func TestWorkouts_Empty(t *testing.T) {
	stats := Workouts(WorkoutInput{})

	assert.Equal(t, 0, stats.TotalWorkouts)
	assert.Equal(t, 0.0, stats.CompletionRate)
	assert.Equal(t, 0, stats.TotalVolume)
	assert.Empty(t, stats.FavoriteExercises)
	assert.Empty(t, stats.WorkoutsPerMonth)
}

func TestWorkouts_PerMonthIsChronological(t *testing.T) {
	stats := Workouts(WorkoutInput{Workouts: []domain.Workout{
		{StartTime: day(2024, 2, 1)},
		{StartTime: day(2024, 1, 20)},
		{StartTime: day(2024, 1, 5)},
	}})

	assert.Equal(t, []MonthCount{{Month: "2024-01", Count: 2}, {Month: "2024-02", Count: 1}}, stats.WorkoutsPerMonth)
}

func TestWorkouts_VolumeCountsCompletedSetsOnly(t *testing.T) {
	squat := primitive.NewObjectID()
	press := primitive.NewObjectID()
	programID := primitive.NewObjectID()
	done := primitive.NewObjectID()
	planned := primitive.NewObjectID()

	in := WorkoutInput{
		Workouts: []domain.Workout{
			{ID: done, StartTime: day(2024, 3, 1), TrainingProgramID: &programID},
			{ID: planned, StartTime: day(2024, 3, 8), TrainingProgramID: &programID},
		},
		Completions: []domain.WorkoutCompletion{
			{WorkoutID: done, Completed: true},
			{WorkoutID: planned, Completed: false},
		},
		Programs: []domain.TrainingProgram{{
			ID: programID,
			Exercises: []domain.ProgramExercise{
				{ExerciseID: squat, ExerciseName: "Squat", Sets: []domain.ExerciseSet{
					{SetNumber: 1, Reps: "8-12", Weight: "50"},
					{SetNumber: 2, Reps: "10", Weight: "60"},
				}},
				{ExerciseID: press, ExerciseName: "Press", Sets: []domain.ExerciseSet{
					{SetNumber: 1, Reps: "12", Weight: ""},
				}},
			},
		}},
		ExerciseCompletions: []domain.ExerciseCompletion{
			// second set skipped, extra flag without a target set ignored
			{WorkoutID: done, ExerciseID: squat, CompletedSets: []bool{true, false, true}},
			{WorkoutID: done, ExerciseID: press, CompletedSets: []bool{true}},
		},
	}

	stats := Workouts(in)

	assert.Equal(t, 2, stats.TotalWorkouts)
	assert.Equal(t, 1, stats.CompletedWorkouts)
	assert.Equal(t, 50.0, stats.CompletionRate)
	assert.Equal(t, 500, stats.TotalVolume)
	assert.Equal(t, 2, stats.TotalSets)
	assert.Equal(t, 2, stats.TotalExercises)
}

func TestWorkouts_FavoritesTopFiveStable(t *testing.T) {
	programID := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	ids := make([]primitive.ObjectID, 7)
	program := domain.TrainingProgram{ID: programID}
	for i := range ids {
		ids[i] = primitive.NewObjectID()
		program.Exercises = append(program.Exercises, domain.ProgramExercise{
			ExerciseID:   ids[i],
			ExerciseName: string(rune('A' + i)),
		})
	}

	var completions []domain.ExerciseCompletion
	add := func(i, times int) {
		for n := 0; n < times; n++ {
			completions = append(completions, domain.ExerciseCompletion{ExerciseID: ids[i]})
		}
	}
	add(0, 1)
	add(1, 3)
	add(2, 1)
	add(3, 2)
	add(4, 1)
	add(5, 1)
	add(6, 4)

	stats := Workouts(WorkoutInput{
		Workouts:            []domain.Workout{{ID: workoutID, TrainingProgramID: &programID}},
		Completions:         []domain.WorkoutCompletion{{WorkoutID: workoutID, Completed: true}},
		Programs:            []domain.TrainingProgram{program},
		ExerciseCompletions: completions,
	})

	require.Len(t, stats.FavoriteExercises, FavoriteLimit)
	names := make([]string, 0, FavoriteLimit)
	for _, fav := range stats.FavoriteExercises {
		names = append(names, fav.Name)
	}
	assert.Equal(t, []string{"G", "B", "D", "A", "C"}, names)
	assert.Equal(t, 4, stats.FavoriteExercises[0].Count)
}

func TestMeasurementChange(t *testing.T) {
	ms := []domain.Measurement{
		{Date: day(2024, 1, 1), Weight: f(80)},
		{Date: day(2024, 2, 1), Weight: f(78)},
		{Date: day(2024, 3, 1), Weight: f(75)},
	}

	change := MeasurementChange(ms, FieldWeight)
	assert.Equal(t, Down, change.Direction)
	assert.InDelta(t, 5, change.Value, 1e-9)
	assert.InDelta(t, 6.25, change.Percent, 1e-9)

	// order of the input does not matter
	reversed := []domain.Measurement{ms[2], ms[1], ms[0]}
	assert.Equal(t, change, MeasurementChange(reversed, FieldWeight))
}

func TestMeasurementChange_TooFewRows(t *testing.T) {
	zero := Change{Field: FieldWeight, Direction: None}

	assert.Equal(t, zero, MeasurementChange(nil, FieldWeight))
	assert.Equal(t, zero, MeasurementChange([]domain.Measurement{{Weight: f(80)}}, FieldWeight))
	// only one row carries the field
	assert.Equal(t, zero, MeasurementChange([]domain.Measurement{
		{Date: day(2024, 1, 1), Weight: f(80)},
		{Date: day(2024, 2, 1), Waist: f(70)},
	}, FieldWeight))
}

func TestMeasurementChange_ZeroFirstAndUp(t *testing.T) {
	change := MeasurementChange([]domain.Measurement{
		{Date: day(2024, 1, 1), Biceps: f(0)},
		{Date: day(2024, 2, 1), Biceps: f(35)},
	}, FieldBiceps)

	assert.Equal(t, Up, change.Direction)
	assert.Equal(t, 35.0, change.Value)
	assert.Equal(t, 0.0, change.Percent)

	assert.Len(t, MeasurementChanges(nil), len(Fields))
}

func TestActivity(t *testing.T) {
	stats := Activity(
		[]domain.ActivityEntry{
			{Date: "2024-03-01", ActivityType: "Walking", DurationMinutes: 30},
			{Date: "2024-03-01", ActivityType: "Cleaning", DurationMinutes: 40},
			{Date: "2024-03-02", ActivityType: "Walking", DurationMinutes: 20},
		},
		[]domain.DailyStat{
			{SleepHours: 7, StressLevel: 4, Mood: domain.MoodGood},
			{SleepHours: 8, StressLevel: 2, Mood: domain.MoodGood},
			{SleepHours: 6, StressLevel: 6, Mood: domain.MoodBad},
		},
	)

	assert.Equal(t, 3, stats.TotalActivities)
	assert.Equal(t, 2, stats.ActiveDays)
	assert.Equal(t, 90, stats.TotalDuration)
	assert.Equal(t, []TypeDuration{{Type: "Walking", Minutes: 50}, {Type: "Cleaning", Minutes: 40}}, stats.TypesDistribution)
	assert.InDelta(t, 7, stats.AverageSleep, 1e-9)
	assert.InDelta(t, 4, stats.AverageStress, 1e-9)
	assert.Equal(t, map[domain.Mood]int{domain.MoodGood: 2, domain.MoodBad: 1}, stats.MoodDistribution)
}

func TestActivity_Empty(t *testing.T) {
	stats := Activity(nil, nil)

	assert.Equal(t, 0, stats.TotalDuration)
	assert.Equal(t, 0.0, stats.AverageSleep)
	assert.Equal(t, 0.0, stats.AverageStress)
	assert.Empty(t, stats.TypesDistribution)
	assert.Empty(t, stats.MoodDistribution)
}

func TestNutrition(t *testing.T) {
	stats := Nutrition([]domain.NutritionEntry{
		{Proteins: 100, Fats: 50, Carbs: 200, Calories: 2000, Water: 2},
		{Proteins: 150, Fats: 70, Carbs: 250, Calories: 2600, Water: 3},
	})

	assert.Equal(t, 2, stats.EntriesCount)
	assert.InDelta(t, 125, stats.AverageProteins, 1e-9)
	assert.InDelta(t, 60, stats.AverageFats, 1e-9)
	assert.InDelta(t, 225, stats.AverageCarbs, 1e-9)
	assert.InDelta(t, 2300, stats.AverageCalories, 1e-9)
	assert.InDelta(t, 2.5, stats.AverageWater, 1e-9)

	// 250g*4=1000, 120g*9=1080, 450g*4=1800 of 3880 kcal
	assert.InDelta(t, 1000.0/3880*100, stats.MacroDistribution.Proteins, 1e-9)
	assert.InDelta(t, 1080.0/3880*100, stats.MacroDistribution.Fats, 1e-9)
	assert.InDelta(t, 1800.0/3880*100, stats.MacroDistribution.Carbs, 1e-9)
}

func TestNutrition_Empty(t *testing.T) {
	assert.Equal(t, NutritionStats{}, Nutrition(nil))
	assert.Equal(t, MacroDistribution{}, Macros(0, 0, 0))
}

func TestEstimateComposition_Constants(t *testing.T) {
	p, ok := EstimateComposition(domain.Measurement{
		Date:   day(2024, 1, 1),
		Weight: f(300),
		Height: f(170),
		Waist:  f(100),
	})
	require.True(t, ok)

	bmi := 300 / (1.7 * 1.7)
	require.NotNil(t, p.BMI)
	assert.InDelta(t, bmi, *p.BMI, 1e-9)
	require.NotNil(t, p.BodyFatPercent)
	assert.InDelta(t, 1.082*bmi-0.01295*100-98.42, *p.BodyFatPercent, 1e-9)
	assert.InDelta(t, 120, *p.MuscleMass, 1e-9)
	assert.InDelta(t, 180, *p.WaterMass, 1e-9)
	assert.Equal(t, SourceEstimate, p.Source)
}

func TestEstimateComposition_Clamp(t *testing.T) {
	assert.Equal(t, 0.0, EstimateBodyFat(22, 80))
	assert.Equal(t, 100.0, EstimateBodyFat(200, 0))

	p, ok := EstimateComposition(domain.Measurement{Weight: f(70)})
	require.True(t, ok)
	assert.Nil(t, p.BMI)
	assert.Nil(t, p.BodyFatPercent)

	_, ok = EstimateComposition(domain.Measurement{Waist: f(70)})
	assert.False(t, ok)
}

func TestBodyComposition_PrefersLab(t *testing.T) {
	lab := []domain.BodyComposition{
		{MeasurementDate: day(2024, 2, 1), WeightKg: f(80), HeightCm: f(200), BodyFatPercent: f(20)},
		{MeasurementDate: day(2024, 1, 1), WeightKg: f(82), BMI: f(21)},
	}
	ms := []domain.Measurement{{Date: day(2024, 1, 1), Weight: f(90)}}

	points := BodyComposition(lab, ms)
	require.Len(t, points, 2)
	assert.Equal(t, day(2024, 1, 1), points[0].Date)
	assert.Equal(t, SourceLab, points[1].Source)
	assert.InDelta(t, 20, *points[1].BMI, 1e-9)
	assert.InDelta(t, 16, *points[1].FatMass, 1e-9)

	fallback := BodyComposition(nil, ms)
	require.Len(t, fallback, 1)
	assert.Equal(t, SourceEstimate, fallback[0].Source)

	assert.Empty(t, BodyComposition(nil, nil))
}

func TestAchievements(t *testing.T) {
	list := Achievements(AchievementInput{TotalWorkouts: 4, CompletedWorkouts: 3, Measurements: 0, ActivityDays: 9, NutritionDays: 6})
	require.Len(t, list, 5)

	byID := map[string]Achievement{}
	for _, a := range list {
		byID[a.ID] = a
	}

	assert.True(t, byID["first-workout"].Achieved)
	assert.Equal(t, "3/1 workouts", byID["first-workout"].Progress)
	assert.False(t, byID["regular-training"].Achieved)
	assert.Equal(t, "4/10 workouts", byID["regular-training"].Progress)
	assert.Equal(t, "0/1 measurements", byID["first-measurement"].Progress)
	assert.True(t, byID["active-week"].Achieved)
	assert.Equal(t, "9/7 days", byID["active-week"].Progress)
	assert.Equal(t, 9, byID["active-week"].Current)
	assert.Equal(t, "6/7 days", byID["nutrition-week"].Progress)
}

func TestAchievements_RegularTrainingCountsScheduledWorkouts(t *testing.T) {
	byID := map[string]Achievement{}
	for _, a := range Achievements(AchievementInput{TotalWorkouts: 12, CompletedWorkouts: 2}) {
		byID[a.ID] = a
	}

	assert.True(t, byID["regular-training"].Achieved)
	assert.Equal(t, "12/10 workouts", byID["regular-training"].Progress)
	assert.Equal(t, "2/1 workouts", byID["first-workout"].Progress)

	byID = map[string]Achievement{}
	for _, a := range Achievements(AchievementInput{TotalWorkouts: 9, CompletedWorkouts: 9}) {
		byID[a.ID] = a
	}
	assert.False(t, byID["regular-training"].Achieved)
	assert.Equal(t, "9/10 workouts", byID["regular-training"].Progress)
}

func TestAchievements_Empty(t *testing.T) {
	for _, a := range Achievements(AchievementInput{}) {
		assert.False(t, a.Achieved, a.ID)
		assert.Equal(t, 0, a.Current)
	}
}
