package stats

import (
	"math"
	"sort"

	"hardcase/coaching-app/internal/domain"
)

type Field string

const (
	FieldWeight Field = "weight"
	FieldHeight Field = "height"
	FieldChest  Field = "chest"
	FieldWaist  Field = "waist"
	FieldHips   Field = "hips"
	FieldBiceps Field = "biceps"
	FieldCalves Field = "calves"
)

var Fields = []Field{FieldWeight, FieldHeight, FieldChest, FieldWaist, FieldHips, FieldBiceps, FieldCalves}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	None Direction = "none"
)

type Change struct {
	Field     Field     `json:"field"`
	First     float64   `json:"first"`
	Last      float64   `json:"last"`
	Value     float64   `json:"value"`
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
}

// Value returns the field of m, or nil when it was not measured.
func (f Field) Value(m domain.Measurement) *float64 {
	switch f {
	case FieldWeight:
		return m.Weight
	case FieldHeight:
		return m.Height
	case FieldChest:
		return m.Chest
	case FieldWaist:
		return m.Waist
	case FieldHips:
		return m.Hips
	case FieldBiceps:
		return m.Biceps
	case FieldCalves:
		return m.Calves
	}
	return nil
}

// MeasurementChange compares the chronologically first and last rows that
// carry field. Fewer than two such rows yield a zero change.
func MeasurementChange(measurements []domain.Measurement, field Field) Change {
	change := Change{Field: field, Direction: None}

	rows := make([]domain.Measurement, 0, len(measurements))
	for _, m := range measurements {
		if field.Value(m) != nil {
			rows = append(rows, m)
		}
	}
	if len(rows) < 2 {
		return change
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	first := *field.Value(rows[0])
	last := *field.Value(rows[len(rows)-1])

	change.First = first
	change.Last = last
	change.Value = math.Abs(last - first)
	change.Percent = percent(change.Value, first)
	switch {
	case last > first:
		change.Direction = Up
	case last < first:
		change.Direction = Down
	}
	return change
}

// MeasurementChanges reports every tracked field.
func MeasurementChanges(measurements []domain.Measurement) []Change {
	changes := make([]Change, 0, len(Fields))
	for _, f := range Fields {
		changes = append(changes, MeasurementChange(measurements, f))
	}
	return changes
}
