package service

import (
	"context"
	"errors"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/stats"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrMeasurementNotFound = errors.New("measurement not found")

// MeasurementInput values are optional; at least one must be set.
type MeasurementInput struct {
	Date   string
	Weight *float64
	Height *float64
	Chest  *float64
	Waist  *float64
	Hips   *float64
	Biceps *float64
	Calves *float64
}

type BodyCompositionInput struct {
	Date                 string
	Age                  *int
	Gender               string
	HeightCm             *float64
	WeightKg             *float64
	BMI                  *float64
	BodyFatPercent       *float64
	FatMassKg            *float64
	SkeletalMuscleMassKg *float64
	WaterPercentage      *float64
	VisceralFatLevel     *int
	BasalMetabolicRate   *float64
	InbodyScore          *int
	Notes                string
}

type MeasurementHistory struct {
	Measurements []domain.Measurement `json:"measurements"`
	Changes      []stats.Change       `json:"changes"`
}

type CompositionHistory struct {
	Records []domain.BodyComposition `json:"records"`
	Series  []stats.CompositionPoint `json:"series"`
}

type MeasurementService interface {
	AddMeasurement(ctx context.Context, clientID primitive.ObjectID, in MeasurementInput) (*domain.Measurement, error)
	UpdateMeasurement(ctx context.Context, clientID, measurementID primitive.ObjectID, in MeasurementInput) (*domain.Measurement, error)
	ListMeasurements(ctx context.Context, clientID primitive.ObjectID) (*MeasurementHistory, error)
	AddBodyComposition(ctx context.Context, clientID primitive.ObjectID, in BodyCompositionInput) (*domain.BodyComposition, error)
	// BodyComposition returns lab rows and the chart series, estimated from
	// tape measurements when no lab rows exist.
	BodyComposition(ctx context.Context, clientID primitive.ObjectID) (*CompositionHistory, error)
}

type measurementService struct {
	measurementRepo repository.MeasurementRepository
	compositionRepo repository.BodyCompositionRepository
	loc             *time.Location
}

func NewMeasurementService(measurementRepo repository.MeasurementRepository, compositionRepo repository.BodyCompositionRepository, loc *time.Location) MeasurementService {
	if loc == nil {
		loc = time.UTC
	}
	return &measurementService{
		measurementRepo: measurementRepo,
		compositionRepo: compositionRepo,
		loc:             loc,
	}
}

func nonNegative(name string, v *float64) error {
	if v != nil && *v < 0 {
		return validationError("%s must not be negative", name)
	}
	return nil
}

func (in MeasurementInput) values() map[string]*float64 {
	return map[string]*float64{
		"weight": in.Weight,
		"height": in.Height,
		"chest":  in.Chest,
		"waist":  in.Waist,
		"hips":   in.Hips,
		"biceps": in.Biceps,
		"calves": in.Calves,
	}
}

func (s *measurementService) build(in MeasurementInput) (domain.Measurement, error) {
	date, err := parseDay(in.Date, s.loc)
	if err != nil {
		return domain.Measurement{}, err
	}
	set := 0
	for name, v := range in.values() {
		if err = nonNegative(name, v); err != nil {
			return domain.Measurement{}, err
		}
		if v != nil {
			set++
		}
	}
	if set == 0 {
		return domain.Measurement{}, validationError("at least one measurement is required")
	}
	return domain.Measurement{
		Date:   date,
		Weight: in.Weight,
		Height: in.Height,
		Chest:  in.Chest,
		Waist:  in.Waist,
		Hips:   in.Hips,
		Biceps: in.Biceps,
		Calves: in.Calves,
	}, nil
}

func (s *measurementService) AddMeasurement(ctx context.Context, clientID primitive.ObjectID, in MeasurementInput) (*domain.Measurement, error) {
	m, err := s.build(in)
	if err != nil {
		return nil, err
	}
	m.ClientID = clientID

	id, err := s.measurementRepo.Create(ctx, &m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return &m, nil
}

func (s *measurementService) UpdateMeasurement(ctx context.Context, clientID, measurementID primitive.ObjectID, in MeasurementInput) (*domain.Measurement, error) {
	m, err := s.build(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.measurementRepo.GetByID(ctx, measurementID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	m.ID = existing.ID
	m.ClientID = existing.ClientID
	m.CreatedAt = existing.CreatedAt

	if err = s.measurementRepo.Update(ctx, &m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *measurementService) ListMeasurements(ctx context.Context, clientID primitive.ObjectID) (*MeasurementHistory, error) {
	measurements, err := s.measurementRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &MeasurementHistory{
		Measurements: measurements,
		Changes:      stats.MeasurementChanges(measurements),
	}, nil
}

func (s *measurementService) AddBodyComposition(ctx context.Context, clientID primitive.ObjectID, in BodyCompositionInput) (*domain.BodyComposition, error) {
	date, err := parseDay(in.Date, s.loc)
	if err != nil {
		return nil, err
	}
	for name, v := range map[string]*float64{
		"height":      in.HeightCm,
		"weight":      in.WeightKg,
		"bmi":         in.BMI,
		"fat mass":    in.FatMassKg,
		"muscle mass": in.SkeletalMuscleMassKg,
		"basal rate":  in.BasalMetabolicRate,
		"body fat":    in.BodyFatPercent,
		"water":       in.WaterPercentage,
	} {
		if err = nonNegative(name, v); err != nil {
			return nil, err
		}
	}
	for name, v := range map[string]*float64{"body fat": in.BodyFatPercent, "water": in.WaterPercentage} {
		if v != nil && *v > 100 {
			return nil, validationError("%s must be a percentage", name)
		}
	}

	bc := &domain.BodyComposition{
		ClientID:             clientID,
		MeasurementDate:      date,
		Age:                  in.Age,
		Gender:               in.Gender,
		HeightCm:             in.HeightCm,
		WeightKg:             in.WeightKg,
		BMI:                  in.BMI,
		BodyFatPercent:       in.BodyFatPercent,
		FatMassKg:            in.FatMassKg,
		SkeletalMuscleMassKg: in.SkeletalMuscleMassKg,
		WaterPercentage:      in.WaterPercentage,
		VisceralFatLevel:     in.VisceralFatLevel,
		BasalMetabolicRate:   in.BasalMetabolicRate,
		InbodyScore:          in.InbodyScore,
		Notes:                in.Notes,
	}
	deriveComposition(bc)

	id, err := s.compositionRepo.Create(ctx, bc)
	if err != nil {
		return nil, err
	}
	bc.ID = id
	return bc, nil
}

// deriveComposition fills BMI and fat mass when the inputs allow it.
func deriveComposition(bc *domain.BodyComposition) {
	if bc.BMI == nil && bc.WeightKg != nil && bc.HeightCm != nil && *bc.HeightCm > 0 {
		bmi := stats.BMI(*bc.WeightKg, *bc.HeightCm)
		bc.BMI = &bmi
	}
	if bc.FatMassKg == nil && bc.WeightKg != nil && bc.BodyFatPercent != nil {
		fat := stats.FatMass(*bc.WeightKg, *bc.BodyFatPercent)
		bc.FatMassKg = &fat
	}
}

func (s *measurementService) BodyComposition(ctx context.Context, clientID primitive.ObjectID) (*CompositionHistory, error) {
	records, err := s.compositionRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	var measurements []domain.Measurement
	if len(records) == 0 {
		if measurements, err = s.measurementRepo.GetByClientID(ctx, clientID); err != nil {
			return nil, err
		}
	}
	return &CompositionHistory{
		Records: records,
		Series:  stats.BodyComposition(records, measurements),
	}, nil
}
