package stats

import (
	"sort"

	"hardcase/coaching-app/internal/domain"
)

type TypeDuration struct {
	Type    string `json:"type"`
	Minutes int    `json:"minutes"`
}

type ActivityStats struct {
	TotalActivities   int                 `json:"totalActivities"`
	ActiveDays        int                 `json:"activeDays"`
	TotalDuration     int                 `json:"totalDuration"`
	TypesDistribution []TypeDuration      `json:"typesDistribution"`
	AverageSleep      float64             `json:"averageSleep"`
	AverageStress     float64             `json:"averageStress"`
	MoodDistribution  map[domain.Mood]int `json:"moodDistribution"`
}

func Activity(activities []domain.ActivityEntry, dailyStats []domain.DailyStat) ActivityStats {
	stats := ActivityStats{
		TotalActivities:   len(activities),
		TypesDistribution: []TypeDuration{},
		MoodDistribution:  map[domain.Mood]int{},
	}

	days := make(map[string]struct{})
	index := make(map[string]int)
	for _, a := range activities {
		stats.TotalDuration += a.DurationMinutes
		days[a.Date] = struct{}{}

		i, ok := index[a.ActivityType]
		if !ok {
			i = len(stats.TypesDistribution)
			index[a.ActivityType] = i
			stats.TypesDistribution = append(stats.TypesDistribution, TypeDuration{Type: a.ActivityType})
		}
		stats.TypesDistribution[i].Minutes += a.DurationMinutes
	}
	stats.ActiveDays = len(days)
	sort.SliceStable(stats.TypesDistribution, func(i, j int) bool {
		return stats.TypesDistribution[i].Minutes > stats.TypesDistribution[j].Minutes
	})

	var sleep, stress float64
	for _, d := range dailyStats {
		sleep += d.SleepHours
		stress += float64(d.StressLevel)
		if d.Mood != "" {
			stats.MoodDistribution[d.Mood]++
		}
	}
	stats.AverageSleep = mean(sleep, len(dailyStats))
	stats.AverageStress = mean(stress, len(dailyStats))

	return stats
}
