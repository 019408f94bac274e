package stats

import (
	"math"
	"sort"
	"time"

	"hardcase/coaching-app/internal/domain"
)

// Fallback estimator constants. Historical charts were drawn with exactly
// these values, keep them as they are.
const (
	bodyFatBMICoefficient   = 1.082
	bodyFatWaistCoefficient = 0.01295
	bodyFatIntercept        = 98.42
	muscleMassRatio         = 0.4
	waterMassRatio          = 0.6
)

type CompositionSource string

const (
	SourceLab      CompositionSource = "lab"
	SourceEstimate CompositionSource = "estimate"
)

// CompositionPoint is one dated value set of the body composition chart.
// Nil fields were neither measured nor derivable.
type CompositionPoint struct {
	Date           time.Time         `json:"date"`
	Source         CompositionSource `json:"source"`
	Weight         *float64          `json:"weight,omitempty"`
	BMI            *float64          `json:"bmi,omitempty"`
	BodyFatPercent *float64          `json:"bodyFatPercent,omitempty"`
	FatMass        *float64          `json:"fatMass,omitempty"`
	MuscleMass     *float64          `json:"muscleMass,omitempty"`
	WaterMass      *float64          `json:"waterMass,omitempty"`
	WaterPercent   *float64          `json:"waterPercent,omitempty"`
	VisceralFat    *int              `json:"visceralFat,omitempty"`
	InbodyScore    *int              `json:"inbodyScore,omitempty"`
}

// BodyComposition returns the lab rows when any exist, otherwise estimates
// from tape measurements. Points are ordered by date.
func BodyComposition(lab []domain.BodyComposition, measurements []domain.Measurement) []CompositionPoint {
	points := []CompositionPoint{}
	if len(lab) > 0 {
		for _, row := range lab {
			points = append(points, LabPoint(row))
		}
	} else {
		for _, m := range measurements {
			if p, ok := EstimateComposition(m); ok {
				points = append(points, p)
			}
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// LabPoint maps a lab row, deriving BMI and fat mass when they are missing.
func LabPoint(row domain.BodyComposition) CompositionPoint {
	p := CompositionPoint{
		Date:           row.MeasurementDate,
		Source:         SourceLab,
		Weight:         row.WeightKg,
		BMI:            row.BMI,
		BodyFatPercent: row.BodyFatPercent,
		FatMass:        row.FatMassKg,
		MuscleMass:     row.SkeletalMuscleMassKg,
		WaterPercent:   row.WaterPercentage,
		VisceralFat:    row.VisceralFatLevel,
		InbodyScore:    row.InbodyScore,
	}
	if p.BMI == nil && positive(row.WeightKg) && positive(row.HeightCm) {
		p.BMI = ptr(BMI(*row.WeightKg, *row.HeightCm))
	}
	if p.FatMass == nil && row.WeightKg != nil && row.BodyFatPercent != nil {
		p.FatMass = ptr(FatMass(*row.WeightKg, *row.BodyFatPercent))
	}
	return p
}

// EstimateComposition derives heuristic values from a tape measurement.
// These are placeholders rather than clinical formulas. It reports false when
// the row has no weight.
func EstimateComposition(m domain.Measurement) (CompositionPoint, bool) {
	if !positive(m.Weight) {
		return CompositionPoint{}, false
	}
	weight := *m.Weight

	p := CompositionPoint{
		Date:       m.Date,
		Source:     SourceEstimate,
		Weight:     ptr(weight),
		MuscleMass: ptr(weight * muscleMassRatio),
		WaterMass:  ptr(weight * waterMassRatio),
	}
	if positive(m.Height) {
		bmi := BMI(weight, *m.Height)
		p.BMI = ptr(bmi)
		if positive(m.Waist) {
			p.BodyFatPercent = ptr(EstimateBodyFat(bmi, *m.Waist))
		}
	}
	return p, true
}

// BMI is weight in kg over the square of height in meters.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return weightKg / (h * h)
}

// EstimateBodyFat is clamp(0, 100, 1.082*BMI - 0.01295*waist - 98.42).
func EstimateBodyFat(bmi, waistCm float64) float64 {
	bf := bodyFatBMICoefficient*bmi - bodyFatWaistCoefficient*waistCm - bodyFatIntercept
	return math.Max(0, math.Min(100, bf))
}

func FatMass(weightKg, bodyFatPercent float64) float64 {
	return weightKg * bodyFatPercent / 100
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

func ptr[T any](v T) *T {
	return &v
}
