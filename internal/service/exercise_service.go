package service

import (
	"context"
	"errors"
	"strings"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
)

type ExerciseInput struct {
	Name             string
	Description      string
	MuscleGroups     []string
	Equipment        []string
	Difficulty       domain.Difficulty
	ExecutionTechnic string
	VideoURL         string
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, trainerID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	// GetExercisesByTrainer lists the library; filter fields left empty match everything.
	GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

func (in ExerciseInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("exercise name is required")
	}
	if !in.Difficulty.Valid() {
		return validationError("unknown difficulty %q", in.Difficulty)
	}
	return nil
}

// tags trims values and drops blanks and case-insensitive duplicates.
func tags(values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// CreateExercise adds an exercise to the trainer's library.
func (s *exerciseService) CreateExercise(ctx context.Context, trainerID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		TrainerID:        trainerID,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		MuscleGroups:     tags(in.MuscleGroups),
		Equipment:        tags(in.Equipment),
		Difficulty:       in.Difficulty,
		ExecutionTechnic: in.ExecutionTechnic,
		VideoURL:         in.VideoURL,
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

func (s *exerciseService) GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	if !filter.Difficulty.Valid() {
		return nil, validationError("unknown difficulty %q", filter.Difficulty)
	}
	filter.MuscleGroup = strings.TrimSpace(filter.MuscleGroup)
	filter.Equipment = strings.TrimSpace(filter.Equipment)
	return s.exerciseRepo.GetByTrainerID(ctx, trainerID, filter)
}

// UpdateExercise checks ownership before writing.
func (s *exerciseService) UpdateExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	exercise, err := s.owned(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}

	exercise.Name = strings.TrimSpace(in.Name)
	exercise.Description = in.Description
	exercise.MuscleGroups = tags(in.MuscleGroups)
	exercise.Equipment = tags(in.Equipment)
	exercise.Difficulty = in.Difficulty
	exercise.ExecutionTechnic = in.ExecutionTechnic
	exercise.VideoURL = in.VideoURL

	if err = s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) error {
	if _, err := s.owned(ctx, trainerID, exerciseID); err != nil {
		return err
	}
	err := s.exerciseRepo.Delete(ctx, exerciseID, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

func (s *exerciseService) owned(ctx context.Context, trainerID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.TrainerID != trainerID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}
