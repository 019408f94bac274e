package mongo

import (
	"context"
	"errors"
	"sort"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const programCollectionName = "training_programs"

type mongoTrainingProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingProgramRepository creates a program repository. Exercises
// and their sets are embedded in the program document.
func NewMongoTrainingProgramRepository(db *mongo.Database) repository.TrainingProgramRepository {
	return &mongoTrainingProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

func (r *mongoTrainingProgramRepository) Create(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error) {
	if program.TrainerID == primitive.NilObjectID || program.Title == "" {
		return primitive.NilObjectID, errors.New("program requires trainerId and title")
	}

	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.Status == "" {
		program.Status = domain.ProgramActive
	}
	normalizeProgram(program)

	if _, err := r.collection.InsertOne(ctx, program); err != nil {
		return primitive.NilObjectID, err
	}
	return program.ID, nil
}

func (r *mongoTrainingProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingProgram, error) {
	var program domain.TrainingProgram
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByIDs loads several programs at once. Unknown ids are skipped.
func (r *mongoTrainingProgramRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.TrainingProgram, error) {
	if len(ids) == 0 {
		return []domain.TrainingProgram{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.TrainingProgram](ctx, cursor)
}

func (r *mongoTrainingProgramRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingProgram, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.TrainingProgram](ctx, cursor)
}

// Update replaces title, description, status, client and the exercise list.
func (r *mongoTrainingProgramRepository) Update(ctx context.Context, program *domain.TrainingProgram) error {
	if program.ID == primitive.NilObjectID || program.TrainerID == primitive.NilObjectID {
		return errors.New("program ID and trainer ID are required for update")
	}
	normalizeProgram(program)

	filter := bson.M{"_id": program.ID, "trainerId": program.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"title":       program.Title,
			"description": program.Description,
			"status":      program.Status,
			"clientId":    program.ClientID,
			"exercises":   program.Exercises,
			"updatedAt":   time.Now().UTC(),
		},
	}

	return updatedOne(r.collection.UpdateOne(ctx, filter, update))
}

func (r *mongoTrainingProgramRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	return deletedOne(r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID}))
}

// normalizeProgram keeps exercises ordered by Order and sets by SetNumber,
// the order stats relies on when it indexes completed sets.
func normalizeProgram(p *domain.TrainingProgram) {
	if p.Exercises == nil {
		p.Exercises = []domain.ProgramExercise{}
	}
	sort.SliceStable(p.Exercises, func(i, j int) bool { return p.Exercises[i].Order < p.Exercises[j].Order })
	for i := range p.Exercises {
		sets := p.Exercises[i].Sets
		if sets == nil {
			p.Exercises[i].Sets = []domain.ExerciseSet{}
			continue
		}
		sort.SliceStable(sets, func(a, b int) bool { return sets[a].SetNumber < sets[b].SetNumber })
	}
}

func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection,
		mongo.IndexModel{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	)
}
