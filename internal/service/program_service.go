package service

import (
	"context"
	"errors"
	"strings"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/stats"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProgramNotFound     = errors.New("training program not found")
	ErrProgramAccessDenied = errors.New("access denied to this training program")
)

type ProgramExerciseInput struct {
	ExerciseID primitive.ObjectID
	Notes      string
	Sets       []domain.ExerciseSet
}

type ProgramInput struct {
	Title       string
	Description string
	ClientID    *primitive.ObjectID
	Status      domain.ProgramStatus
	Exercises   []ProgramExerciseInput
}

type ProgramService interface {
	CreateProgram(ctx context.Context, trainerID primitive.ObjectID, in ProgramInput) (*domain.TrainingProgram, error)
	GetProgram(ctx context.Context, trainerID, programID primitive.ObjectID) (*domain.TrainingProgram, error)
	ListPrograms(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingProgram, error)
	UpdateProgram(ctx context.Context, trainerID, programID primitive.ObjectID, in ProgramInput) (*domain.TrainingProgram, error)
	DeleteProgram(ctx context.Context, trainerID, programID primitive.ObjectID) error
}

type programService struct {
	programRepo  repository.TrainingProgramRepository
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
}

func NewProgramService(programRepo repository.TrainingProgramRepository, exerciseRepo repository.ExerciseRepository, userRepo repository.UserRepository) ProgramService {
	return &programService{
		programRepo:  programRepo,
		exerciseRepo: exerciseRepo,
		userRepo:     userRepo,
	}
}

// validate checks the input shape only, no lookups.
func (in ProgramInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return validationError("program title is required")
	}
	switch in.Status {
	case "", domain.ProgramActive, domain.ProgramArchived:
	default:
		return validationError("unknown program status %q", in.Status)
	}
	for i, ex := range in.Exercises {
		if ex.ExerciseID == primitive.NilObjectID {
			return validationError("exercise %d has no exercise id", i+1)
		}
		for j, set := range ex.Sets {
			if stats.ParseReps(set.Reps) <= 0 {
				return validationError("exercise %d set %d: reps must be a number or a range like 8-12", i+1, j+1)
			}
		}
	}
	return nil
}

// build resolves exercise names from the trainer's library and numbers
// exercises and sets in input order.
func (s *programService) build(ctx context.Context, trainerID primitive.ObjectID, in ProgramInput) ([]domain.ProgramExercise, error) {
	if in.ClientID != nil {
		if _, err := managedClient(ctx, s.userRepo, trainerID, *in.ClientID); err != nil {
			return nil, err
		}
	}

	exercises := make([]domain.ProgramExercise, 0, len(in.Exercises))
	for i, ex := range in.Exercises {
		libraryExercise, err := s.exerciseRepo.GetByID(ctx, ex.ExerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrExerciseNotFound
			}
			return nil, err
		}
		if libraryExercise.TrainerID != trainerID {
			return nil, ErrExerciseAccessDenied
		}

		sets := make([]domain.ExerciseSet, len(ex.Sets))
		for j, set := range ex.Sets {
			sets[j] = domain.ExerciseSet{
				SetNumber: j + 1,
				Reps:      strings.TrimSpace(set.Reps),
				Weight:    strings.TrimSpace(set.Weight),
			}
		}
		exercises = append(exercises, domain.ProgramExercise{
			ExerciseID:   ex.ExerciseID,
			ExerciseName: libraryExercise.Name,
			Order:        i + 1,
			Notes:        ex.Notes,
			Sets:         sets,
		})
	}
	return exercises, nil
}

func (s *programService) CreateProgram(ctx context.Context, trainerID primitive.ObjectID, in ProgramInput) (*domain.TrainingProgram, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	exercises, err := s.build(ctx, trainerID, in)
	if err != nil {
		return nil, err
	}

	program := &domain.TrainingProgram{
		TrainerID:   trainerID,
		ClientID:    in.ClientID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Exercises:   exercises,
	}
	id, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = id
	return program, nil
}

func (s *programService) GetProgram(ctx context.Context, trainerID, programID primitive.ObjectID) (*domain.TrainingProgram, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.TrainerID != trainerID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

func (s *programService) ListPrograms(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingProgram, error) {
	return s.programRepo.GetByTrainerID(ctx, trainerID)
}

func (s *programService) UpdateProgram(ctx context.Context, trainerID, programID primitive.ObjectID, in ProgramInput) (*domain.TrainingProgram, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	program, err := s.GetProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.build(ctx, trainerID, in)
	if err != nil {
		return nil, err
	}

	program.Title = strings.TrimSpace(in.Title)
	program.Description = in.Description
	program.ClientID = in.ClientID
	program.Exercises = exercises
	if in.Status != "" {
		program.Status = in.Status
	}

	if err = s.programRepo.Update(ctx, program); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *programService) DeleteProgram(ctx context.Context, trainerID, programID primitive.ObjectID) error {
	if _, err := s.GetProgram(ctx, trainerID, programID); err != nil {
		return err
	}
	err := s.programRepo.Delete(ctx, programID, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}
