package service

import (
	"context"
	"errors"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
)

type TrainerService interface {
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	GetManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo repository.UserRepository
}

func NewTrainerService(userRepo repository.UserRepository) TrainerService {
	return &trainerService{userRepo: userRepo}
}

// AddClientByEmail finds a client by email and assigns them to the trainer.
// Adding a client the trainer already manages is a no-op.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	clientEmail = normalizeEmail(clientEmail)
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, validationError("client email is required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotRole
	}

	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			client.PasswordHash = ""
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	if err = s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		return nil, err
	}
	// TODO: run both updates in a mongo session once the deployment is a replica set
	if err = s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID); err != nil {
		return nil, err
	}

	client.TrainerID = &trainerID
	client.PasswordHash = ""
	return client, nil
}

// GetManagedClients retrieves the list of clients managed by the trainer.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

func (s *trainerService) GetManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error) {
	client, err := managedClient(ctx, s.userRepo, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	client.PasswordHash = ""
	return client, nil
}

// managedClient loads a client and checks that trainerID manages it.
func managedClient(ctx context.Context, users repository.UserRepository, trainerID, clientID primitive.ObjectID) (*domain.User, error) {
	client, err := users.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotRole
	}
	if !client.ManagedBy(trainerID) {
		return nil, ErrClientNotManaged
	}
	return client, nil
}
