package mongo

import (
	"context"
	"errors"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const medicalCollectionName = "client_medical_data"

type mongoMedicalRepository struct {
	collection *mongo.Collection
}

func NewMongoMedicalRepository(db *mongo.Database) repository.MedicalRepository {
	return &mongoMedicalRepository{
		collection: db.Collection(medicalCollectionName),
	}
}

func (r *mongoMedicalRepository) Create(ctx context.Context, record *domain.MedicalRecord) (primitive.ObjectID, error) {
	if record.ClientID == primitive.NilObjectID || record.Description == "" {
		return primitive.NilObjectID, errors.New("medical record requires clientId and description")
	}
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now().UTC()
	if record.Files == nil {
		record.Files = []domain.MedicalFile{}
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return primitive.NilObjectID, err
	}
	return record.ID, nil
}

func (r *mongoMedicalRepository) GetByID(ctx context.Context, id, clientID primitive.ObjectID) (*domain.MedicalRecord, error) {
	var record domain.MedicalRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "clientId": clientID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *mongoMedicalRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.MedicalRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.MedicalRecord](ctx, cursor)
}

func (r *mongoMedicalRepository) Delete(ctx context.Context, id, clientID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "clientId": clientID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrDeleteFailed
	}
	return nil
}

func EnsureMedicalIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, clientIndex("date"))
}
