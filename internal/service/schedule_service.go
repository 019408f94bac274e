package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hardcase/coaching-app/internal/calendar"
	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrWorkoutAccessDenied = errors.New("access denied to this workout")
)

// WorkoutInput schedules a session. End must be after Start.
type WorkoutInput struct {
	ClientID          primitive.ObjectID
	Start             time.Time
	End               time.Time
	Title             string
	TrainingProgramID *primitive.ObjectID
}

// CalendarView is a trainer calendar page. Cells is set for month and week
// modes, Day for the day mode.
type CalendarView struct {
	Mode  calendar.ViewMode `json:"mode"`
	Date  time.Time         `json:"date"`
	Prev  time.Time         `json:"prev"`
	Next  time.Time         `json:"next"`
	From  time.Time         `json:"from"`
	To    time.Time         `json:"to"`
	Cells []calendar.Cell   `json:"cells,omitempty"`
	Day   *calendar.DayView `json:"day,omitempty"`
}

type TimeOptions struct {
	Options      []string  `json:"options"`
	DefaultStart time.Time `json:"defaultStart"`
	StartHour    int       `json:"startHour"`
	EndHour      int       `json:"endHour"`
}

type ScheduleService interface {
	Calendar(ctx context.Context, trainerID primitive.ObjectID, mode calendar.ViewMode, ref time.Time) (*CalendarView, error)
	CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) error
	TimeOptions() TimeOptions
}

type scheduleService struct {
	workoutRepo repository.WorkoutRepository
	programRepo repository.TrainingProgramRepository
	userRepo    repository.UserRepository
	cal         *calendar.Calendar
	clock       Clock
}

func NewScheduleService(
	workoutRepo repository.WorkoutRepository,
	programRepo repository.TrainingProgramRepository,
	userRepo repository.UserRepository,
	cal *calendar.Calendar,
	clock Clock,
) ScheduleService {
	return &scheduleService{
		workoutRepo: workoutRepo,
		programRepo: programRepo,
		userRepo:    userRepo,
		cal:         cal,
		clock:       clock,
	}
}

func (s *scheduleService) Calendar(ctx context.Context, trainerID primitive.ObjectID, mode calendar.ViewMode, ref time.Time) (*CalendarView, error) {
	from, to := s.cal.Range(ref, mode)

	workouts, err := s.workoutRepo.GetByTrainerInRange(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(clients))
	for i := range clients {
		names[clients[i].ID] = clients[i].FullName()
	}

	events := make([]calendar.Event, len(workouts))
	for i, w := range workouts {
		events[i] = calendar.Event{
			ID:         w.ID.Hex(),
			Title:      w.Title,
			ClientID:   w.ClientID.Hex(),
			ClientName: names[w.ClientID],
			Start:      w.StartTime,
			End:        w.EndTime,
		}
	}

	view := &CalendarView{
		Mode: mode,
		Date: ref,
		Prev: s.cal.Navigate(ref, mode, -1),
		Next: s.cal.Navigate(ref, mode, 1),
		From: from,
		To:   to,
	}
	switch mode {
	case calendar.Day:
		day := s.cal.DayGrid(ref, events)
		view.Day = &day
	case calendar.Week:
		view.Cells = s.cal.WeekGrid(ref, events)
	default:
		view.Cells = s.cal.MonthGrid(ref, events)
	}
	return view, nil
}

// validate runs the local checks, working hours included.
func (s *scheduleService) validate(in WorkoutInput) error {
	if in.ClientID == primitive.NilObjectID {
		return validationError("client is required")
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return validationError("start and end time are required")
	}
	if err := s.cal.ValidateSlot(in.Start, in.End.Sub(in.Start)); err != nil {
		return invalid(err)
	}
	return nil
}

// checkReferences verifies that the client and the program belong to the trainer.
func (s *scheduleService) checkReferences(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) error {
	if _, err := managedClient(ctx, s.userRepo, trainerID, in.ClientID); err != nil {
		return err
	}
	if in.TrainingProgramID == nil {
		return nil
	}
	program, err := s.programRepo.GetByID(ctx, *in.TrainingProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	if program.TrainerID != trainerID {
		return ErrProgramAccessDenied
	}
	return nil
}

func title(t string) string {
	if t = strings.TrimSpace(t); t != "" {
		return t
	}
	return domain.DefaultWorkoutTitle
}

func (s *scheduleService) CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, trainerID, in); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		ClientID:          in.ClientID,
		TrainerID:         trainerID,
		StartTime:         in.Start.UTC(),
		EndTime:           in.End.UTC(),
		Title:             title(in.Title),
		TrainingProgramID: in.TrainingProgramID,
	}
	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id
	return workout, nil
}

func (s *scheduleService) UpdateWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	workout, err := s.ownedWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}
	if err = s.checkReferences(ctx, trainerID, in); err != nil {
		return nil, err
	}

	workout.ClientID = in.ClientID
	workout.StartTime = in.Start.UTC()
	workout.EndTime = in.End.UTC()
	workout.Title = title(in.Title)
	workout.TrainingProgramID = in.TrainingProgramID

	if err = s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *scheduleService) DeleteWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) error {
	if _, err := s.ownedWorkout(ctx, trainerID, workoutID); err != nil {
		return err
	}
	return s.workoutRepo.Delete(ctx, workoutID, trainerID)
}

func (s *scheduleService) ownedWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.TrainerID != trainerID {
		return nil, ErrWorkoutAccessDenied
	}
	return workout, nil
}

func (s *scheduleService) TimeOptions() TimeOptions {
	hours := s.cal.Hours()
	return TimeOptions{
		Options:      s.cal.TimeOptions(),
		DefaultStart: s.cal.DefaultStart(s.clock.Now()),
		StartHour:    hours.Start,
		EndHour:      hours.End,
	}
}
