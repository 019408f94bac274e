package service

import (
	"context"
	"errors"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientWorkout is a scheduled workout with the client's completion flag.
type ClientWorkout struct {
	domain.Workout
	Completed bool `json:"completed"`
}

type WorkoutDetail struct {
	Workout             domain.Workout              `json:"workout"`
	Program             *domain.TrainingProgram     `json:"program,omitempty"`
	Completion          *domain.WorkoutCompletion   `json:"completion,omitempty"`
	ExerciseCompletions []domain.ExerciseCompletion `json:"exerciseCompletions"`
}

type ExerciseCompletionInput struct {
	ExerciseID    primitive.ObjectID
	CompletedSets []bool
}

type CompletionInput struct {
	Completed bool
	Notes     string
	Exercises []ExerciseCompletionInput
}

// WorkoutService is the client side of scheduled workouts.
type WorkoutService interface {
	ListWorkouts(ctx context.Context, clientID primitive.ObjectID) ([]ClientWorkout, error)
	// NextWorkout returns nil when nothing is scheduled.
	NextWorkout(ctx context.Context, clientID primitive.ObjectID) (*domain.Workout, error)
	GetWorkout(ctx context.Context, clientID, workoutID primitive.ObjectID) (*WorkoutDetail, error)
	ReportCompletion(ctx context.Context, clientID, workoutID primitive.ObjectID, in CompletionInput) (*WorkoutDetail, error)
}

type workoutService struct {
	workoutRepo    repository.WorkoutRepository
	programRepo    repository.TrainingProgramRepository
	completionRepo repository.CompletionRepository
	clock          Clock
}

func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	programRepo repository.TrainingProgramRepository,
	completionRepo repository.CompletionRepository,
	clock Clock,
) WorkoutService {
	return &workoutService{
		workoutRepo:    workoutRepo,
		programRepo:    programRepo,
		completionRepo: completionRepo,
		clock:          clock,
	}
}

func (s *workoutService) ListWorkouts(ctx context.Context, clientID primitive.ObjectID) ([]ClientWorkout, error) {
	workouts, err := s.workoutRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.GetWorkoutCompletionsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	done := make(map[primitive.ObjectID]bool, len(completions))
	for _, c := range completions {
		done[c.WorkoutID] = c.Completed
	}

	list := make([]ClientWorkout, len(workouts))
	for i, w := range workouts {
		list[i] = ClientWorkout{Workout: w, Completed: done[w.ID]}
	}
	return list, nil
}

func (s *workoutService) NextWorkout(ctx context.Context, clientID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetNextForClient(ctx, clientID, s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return workout, err
}

func (s *workoutService) ownWorkout(ctx context.Context, clientID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.ClientID != clientID {
		return nil, ErrWorkoutAccessDenied
	}
	return workout, nil
}

func (s *workoutService) program(ctx context.Context, workout *domain.Workout) (*domain.TrainingProgram, error) {
	if workout.TrainingProgramID == nil {
		return nil, nil
	}
	program, err := s.programRepo.GetByID(ctx, *workout.TrainingProgramID)
	if errors.Is(err, repository.ErrNotFound) {
		// the program was deleted after scheduling
		return nil, nil
	}
	return program, err
}

func (s *workoutService) GetWorkout(ctx context.Context, clientID, workoutID primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.ownWorkout(ctx, clientID, workoutID)
	if err != nil {
		return nil, err
	}
	program, err := s.program(ctx, workout)
	if err != nil {
		return nil, err
	}

	detail := &WorkoutDetail{Workout: *workout, Program: program}
	completion, err := s.completionRepo.GetWorkoutCompletion(ctx, workoutID, clientID)
	switch {
	case err == nil:
		detail.Completion = completion
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	detail.ExerciseCompletions, err = s.completionRepo.GetExerciseCompletionsByWorkout(ctx, workoutID, clientID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ReportCompletion stores the workout completion and replaces the exercise
// completions of the workout. Every exercise must be part of the linked
// program and may not report more sets than the program defines.
func (s *workoutService) ReportCompletion(ctx context.Context, clientID, workoutID primitive.ObjectID, in CompletionInput) (*WorkoutDetail, error) {
	workout, err := s.ownWorkout(ctx, clientID, workoutID)
	if err != nil {
		return nil, err
	}
	program, err := s.program(ctx, workout)
	if err != nil {
		return nil, err
	}
	if err = checkExerciseCompletions(program, in.Exercises); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	completion := &domain.WorkoutCompletion{
		WorkoutID: workoutID,
		ClientID:  clientID,
		Completed: in.Completed,
		Notes:     in.Notes,
	}
	if in.Completed {
		completion.CompletedAt = &now
	}
	if err = s.completionRepo.UpsertWorkoutCompletion(ctx, completion); err != nil {
		return nil, err
	}

	exercises := make([]domain.ExerciseCompletion, len(in.Exercises))
	for i, ex := range in.Exercises {
		exercises[i] = domain.ExerciseCompletion{
			WorkoutID:     workoutID,
			ClientID:      clientID,
			ExerciseID:    ex.ExerciseID,
			CompletedSets: ex.CompletedSets,
		}
	}
	if err = s.completionRepo.ReplaceExerciseCompletions(ctx, workoutID, clientID, exercises); err != nil {
		return nil, err
	}

	return &WorkoutDetail{
		Workout:             *workout,
		Program:             program,
		Completion:          completion,
		ExerciseCompletions: exercises,
	}, nil
}

func checkExerciseCompletions(program *domain.TrainingProgram, exercises []ExerciseCompletionInput) error {
	if len(exercises) == 0 {
		return nil
	}
	if program == nil {
		return validationError("workout has no training program")
	}
	sets := make(map[primitive.ObjectID]int, len(program.Exercises))
	for _, ex := range program.Exercises {
		if _, ok := sets[ex.ExerciseID]; !ok {
			sets[ex.ExerciseID] = len(ex.Sets)
		}
	}
	seen := make(map[primitive.ObjectID]bool, len(exercises))
	for _, ex := range exercises {
		n, ok := sets[ex.ExerciseID]
		if !ok {
			return validationError("exercise %s is not part of the program", ex.ExerciseID.Hex())
		}
		if seen[ex.ExerciseID] {
			return validationError("exercise %s reported twice", ex.ExerciseID.Hex())
		}
		seen[ex.ExerciseID] = true
		if len(ex.CompletedSets) > n {
			return validationError("exercise %s has %d sets, got %d", ex.ExerciseID.Hex(), n, len(ex.CompletedSets))
		}
	}
	return nil
}
