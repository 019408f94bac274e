package stats

import "hardcase/coaching-app/internal/domain"

// Energy density in kcal per gram.
const (
	KcalPerGramProtein = 4
	KcalPerGramCarbs   = 4
	KcalPerGramFat     = 9
)

// MacroDistribution is each macro's share of the energy, in percent.
type MacroDistribution struct {
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
}

type NutritionStats struct {
	EntriesCount      int               `json:"entriesCount"`
	AverageProteins   float64           `json:"averageProteins"`
	AverageFats       float64           `json:"averageFats"`
	AverageCarbs      float64           `json:"averageCarbs"`
	AverageCalories   float64           `json:"averageCalories"`
	AverageWater      float64           `json:"averageWater"`
	MacroDistribution MacroDistribution `json:"macroDistribution"`
}

func Nutrition(entries []domain.NutritionEntry) NutritionStats {
	var proteins, fats, carbs, calories, water float64
	for _, e := range entries {
		proteins += e.Proteins
		fats += e.Fats
		carbs += e.Carbs
		calories += e.Calories
		water += e.Water
	}

	n := len(entries)
	return NutritionStats{
		EntriesCount:      n,
		AverageProteins:   mean(proteins, n),
		AverageFats:       mean(fats, n),
		AverageCarbs:      mean(carbs, n),
		AverageCalories:   mean(calories, n),
		AverageWater:      mean(water, n),
		MacroDistribution: Macros(proteins, fats, carbs),
	}
}

// Macros converts gram totals into energy percentages.
func Macros(proteins, fats, carbs float64) MacroDistribution {
	p := proteins * KcalPerGramProtein
	f := fats * KcalPerGramFat
	c := carbs * KcalPerGramCarbs
	total := p + f + c
	return MacroDistribution{
		Proteins: percent(p, total),
		Fats:     percent(f, total),
		Carbs:    percent(c, total),
	}
}
