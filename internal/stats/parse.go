// Package stats reduces raw client rows into display summaries. Every
// function is pure and returns a zeroed summary for empty input.
package stats

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingInt   = regexp.MustCompile(`^\s*[-+]?\d+`)
	leadingFloat = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)`)
)

// ParseReps reads a target rep count. "10" is 10, a "8-12" range is its
// midpoint rounded half up, anything unreadable is 0.
func ParseReps(reps string) int {
	reps = strings.TrimSpace(reps)
	if reps == "" {
		return 0
	}
	if lo, hi, ok := strings.Cut(reps, "-"); ok && lo != "" {
		from, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		to, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err1 != nil || err2 != nil {
			return 0
		}
		return int(math.Round((from + to) / 2))
	}
	n, err := strconv.Atoi(strings.TrimSpace(leadingInt.FindString(reps)))
	if err != nil {
		return 0
	}
	return n
}

// ParseWeight reads the leading number of a weight such as "50" or "12.5kg".
// Empty or unreadable weights count as bodyweight, 0.
func ParseWeight(weight string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(leadingFloat.FindString(weight)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
