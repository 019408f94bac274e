package stats

import "fmt"

type AchievementInput struct {
	// TotalWorkouts counts scheduled workouts, completed or not.
	TotalWorkouts     int
	CompletedWorkouts int
	Measurements      int
	ActivityDays      int
	NutritionDays     int
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Current     int    `json:"current"`
	Target      int    `json:"target"`
	Unit        string `json:"unit"`
	Progress    string `json:"progress"`
	Achieved    bool   `json:"achieved"`
}

type threshold struct {
	id, title, description, unit string
	target                       int
	current                      func(AchievementInput) int
}

var thresholds = []threshold{
	{"first-workout", "First steps", "Complete your first workout", "workouts", 1,
		func(in AchievementInput) int { return in.CompletedWorkouts }},
	{"regular-training", "Regular training", "Train 10 times", "workouts", 10,
		func(in AchievementInput) int { return in.TotalWorkouts }},
	{"first-measurement", "First measurement", "Record your body measurements", "measurements", 1,
		func(in AchievementInput) int { return in.Measurements }},
	{"active-week", "Active lifestyle", "Log activity on 7 days", "days", 7,
		func(in AchievementInput) int { return in.ActivityDays }},
	{"nutrition-week", "Mindful eating", "Log nutrition on 7 days", "days", 7,
		func(in AchievementInput) int { return in.NutritionDays }},
}

// Achievements evaluates the fixed achievement list. Progress is rendered as
// "{current}/{target} {unit}"; current may exceed the target.
func Achievements(in AchievementInput) []Achievement {
	list := make([]Achievement, 0, len(thresholds))
	for _, t := range thresholds {
		current := t.current(in)
		if current < 0 {
			current = 0
		}
		list = append(list, Achievement{
			ID:          t.id,
			Title:       t.title,
			Description: t.description,
			Current:     current,
			Target:      t.target,
			Unit:        t.unit,
			Progress:    fmt.Sprintf("%d/%d %s", current, t.target, t.unit),
			Achieved:    current >= t.target,
		})
	}
	return list
}
