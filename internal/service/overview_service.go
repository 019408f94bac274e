package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/metrics"
	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/stats"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// Dashboard is the client overview. Sections that failed to load keep their
// zero value and are named in FailedSections.
type Dashboard struct {
	NextWorkout       *domain.Workout          `json:"nextWorkout,omitempty"`
	Workouts          stats.WorkoutStats       `json:"workouts"`
	LatestMeasurement *domain.Measurement      `json:"latestMeasurement,omitempty"`
	MeasurementChange []stats.Change           `json:"measurementChanges"`
	Composition       []stats.CompositionPoint `json:"composition"`
	Activity          stats.ActivityStats      `json:"activity"`
	Nutrition         stats.NutritionStats     `json:"nutrition"`
	Photos            photos.Comparison        `json:"photos"`
	FailedSections    []string                 `json:"failedSections"`
}

type AchievementsView struct {
	Achievements   []stats.Achievement `json:"achievements"`
	Workouts       stats.WorkoutStats  `json:"workouts"`
	Photos         photos.Comparison   `json:"photos"`
	FailedSections []string            `json:"failedSections"`
}

type ClientProfile struct {
	Client   *domain.User `json:"client"`
	Overview *Dashboard   `json:"overview"`
}

// OverviewService assembles aggregated client views. The returned error
// combines the section failures; the view is still usable when it is set.
type OverviewService interface {
	Dashboard(ctx context.Context, clientID primitive.ObjectID) (*Dashboard, error)
	Achievements(ctx context.Context, clientID primitive.ObjectID) (*AchievementsView, error)
	ClientProfile(ctx context.Context, trainerID, clientID primitive.ObjectID) (*ClientProfile, error)
}

type OverviewRepositories struct {
	Users           repository.UserRepository
	Workouts        repository.WorkoutRepository
	Programs        repository.TrainingProgramRepository
	Completions     repository.CompletionRepository
	Measurements    repository.MeasurementRepository
	BodyComposition repository.BodyCompositionRepository
	Activities      repository.ActivityRepository
	DailyStats      repository.DailyStatRepository
	Nutrition       repository.NutritionRepository
}

type overviewService struct {
	repos   OverviewRepositories
	photos  PhotoService
	clock   Clock
	loc     *time.Location
	metrics *metrics.Manager
	log     *logrus.Logger
}

func NewOverviewService(repos OverviewRepositories, photoService PhotoService, clock Clock, loc *time.Location, m *metrics.Manager, log *logrus.Logger) OverviewService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &overviewService{
		repos:   repos,
		photos:  photoService,
		clock:   clock,
		loc:     loc,
		metrics: m,
		log:     log,
	}
}

// clientData is filled by concurrent sections, one field set per section.
type clientData struct {
	next                *domain.Workout
	workouts            []domain.Workout
	programs            []domain.TrainingProgram
	completions         []domain.WorkoutCompletion
	exerciseCompletions []domain.ExerciseCompletion
	measurements        []domain.Measurement
	compositions        []domain.BodyComposition
	activities          []domain.ActivityEntry
	dailyStats          []domain.DailyStat
	nutrition           []domain.NutritionEntry
	photos              photos.Comparison
}

type section struct {
	name  string
	fetch func(ctx context.Context) error
}

// load runs every section concurrently. A failing section is logged and
// counted on its own and never cancels the others.
func (s *overviewService) load(ctx context.Context, clientID primitive.ObjectID, sections []section) ([]string, error) {
	errs := make([]error, len(sections))

	var wg conc.WaitGroup
	for i, sec := range sections {
		i, sec := i, sec
		wg.Go(func() {
			if err := sec.fetch(ctx); err != nil {
				s.log.WithError(err).WithFields(logrus.Fields{
					"clientId": clientID.Hex(),
					"section":  sec.name,
				}).Warn("overview section failed")
				s.metrics.SectionFailed(sec.name)
				errs[i] = fmt.Errorf("%s: %w", sec.name, err)
			}
		})
	}
	wg.Wait()

	failed := []string{}
	var combined error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, sections[i].name)
			combined = multierr.Append(combined, err)
		}
	}
	return failed, combined
}

func (s *overviewService) workoutSections(clientID primitive.ObjectID, d *clientData) []section {
	return []section{
		{"workouts", func(ctx context.Context) error {
			workouts, err := s.repos.Workouts.GetByClientID(ctx, clientID)
			if err != nil {
				return err
			}
			d.workouts = workouts
			d.programs, err = s.repos.Programs.GetByIDs(ctx, programIDs(workouts))
			return err
		}},
		{"completions", func(ctx context.Context) (err error) {
			d.completions, err = s.repos.Completions.GetWorkoutCompletionsByClient(ctx, clientID)
			return err
		}},
		{"exercise_completions", func(ctx context.Context) (err error) {
			d.exerciseCompletions, err = s.repos.Completions.GetExerciseCompletionsByClient(ctx, clientID)
			return err
		}},
		{"photos", func(ctx context.Context) (err error) {
			d.photos, err = s.photos.Timeline(ctx, clientID)
			return err
		}},
	}
}

func (s *overviewService) Dashboard(ctx context.Context, clientID primitive.ObjectID) (*Dashboard, error) {
	d := &clientData{photos: photos.Comparison{Days: []photos.DayGroup{}}}
	sections := append(s.workoutSections(clientID, d),
		section{"next_workout", func(ctx context.Context) error {
			next, err := s.repos.Workouts.GetNextForClient(ctx, clientID, s.clock.Now())
			if err == nil {
				d.next = next
				return nil
			}
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}},
		section{"measurements", func(ctx context.Context) (err error) {
			d.measurements, err = s.repos.Measurements.GetByClientID(ctx, clientID)
			return err
		}},
		section{"body_composition", func(ctx context.Context) (err error) {
			d.compositions, err = s.repos.BodyComposition.GetByClientID(ctx, clientID)
			return err
		}},
		section{"activities", func(ctx context.Context) (err error) {
			d.activities, err = s.repos.Activities.GetByClientID(ctx, clientID)
			return err
		}},
		section{"daily_stats", func(ctx context.Context) (err error) {
			d.dailyStats, err = s.repos.DailyStats.GetByClientID(ctx, clientID)
			return err
		}},
		section{"nutrition", func(ctx context.Context) (err error) {
			d.nutrition, err = s.repos.Nutrition.GetByClientID(ctx, clientID)
			return err
		}},
	)

	failed, err := s.load(ctx, clientID, sections)

	dash := &Dashboard{
		NextWorkout:       d.next,
		Workouts:          s.workoutStats(d),
		MeasurementChange: stats.MeasurementChanges(d.measurements),
		Composition:       stats.BodyComposition(d.compositions, d.measurements),
		Activity:          stats.Activity(d.activities, d.dailyStats),
		Nutrition:         stats.Nutrition(d.nutrition),
		Photos:            d.photos,
		FailedSections:    failed,
	}
	if n := len(d.measurements); n > 0 {
		latest := d.measurements[n-1]
		dash.LatestMeasurement = &latest
	}
	return dash, err
}

func (s *overviewService) Achievements(ctx context.Context, clientID primitive.ObjectID) (*AchievementsView, error) {
	d := &clientData{photos: photos.Comparison{Days: []photos.DayGroup{}}}
	sections := append(s.workoutSections(clientID, d),
		section{"measurements", func(ctx context.Context) (err error) {
			d.measurements, err = s.repos.Measurements.GetByClientID(ctx, clientID)
			return err
		}},
		section{"activities", func(ctx context.Context) (err error) {
			d.activities, err = s.repos.Activities.GetByClientID(ctx, clientID)
			return err
		}},
		section{"nutrition", func(ctx context.Context) (err error) {
			d.nutrition, err = s.repos.Nutrition.GetByClientID(ctx, clientID)
			return err
		}},
	)

	failed, err := s.load(ctx, clientID, sections)

	workoutStats := s.workoutStats(d)
	return &AchievementsView{
		Achievements: stats.Achievements(stats.AchievementInput{
			TotalWorkouts:     workoutStats.TotalWorkouts,
			CompletedWorkouts: workoutStats.CompletedWorkouts,
			Measurements:      len(d.measurements),
			ActivityDays:      distinctDays(d.activities),
			NutritionDays:     len(d.nutrition),
		}),
		Workouts:       workoutStats,
		Photos:         d.photos,
		FailedSections: failed,
	}, err
}

func (s *overviewService) ClientProfile(ctx context.Context, trainerID, clientID primitive.ObjectID) (*ClientProfile, error) {
	client, err := managedClient(ctx, s.repos.Users, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	client.PasswordHash = ""

	dash, err := s.Dashboard(ctx, clientID)
	return &ClientProfile{Client: client, Overview: dash}, err
}

func (s *overviewService) workoutStats(d *clientData) stats.WorkoutStats {
	return stats.Workouts(stats.WorkoutInput{
		Workouts:            d.workouts,
		Completions:         d.completions,
		ExerciseCompletions: d.exerciseCompletions,
		Programs:            d.programs,
		Location:            s.loc,
	})
}

func programIDs(workouts []domain.Workout) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, w := range workouts {
		if w.TrainingProgramID == nil || seen[*w.TrainingProgramID] {
			continue
		}
		seen[*w.TrainingProgramID] = true
		ids = append(ids, *w.TrainingProgramID)
	}
	return ids
}

func distinctDays(entries []domain.ActivityEntry) int {
	days := map[string]bool{}
	for _, e := range entries {
		days[e.Date] = true
	}
	return len(days)
}
