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

const (
	measurementCollectionName     = "client_measurements"
	bodyCompositionCollectionName = "body_measurements"
)

type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

func (r *mongoMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error) {
	if m.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("measurement requires clientId")
	}
	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, m); err != nil {
		return primitive.NilObjectID, err
	}
	return m.ID, nil
}

func (r *mongoMeasurementRepository) GetByID(ctx context.Context, id, clientID primitive.ObjectID) (*domain.Measurement, error) {
	var m domain.Measurement
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "clientId": clientID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Update rewrites the measured values of a row owned by m.ClientID.
func (r *mongoMeasurementRepository) Update(ctx context.Context, m *domain.Measurement) error {
	filter := bson.M{"_id": m.ID, "clientId": m.ClientID}
	update := bson.M{
		"$set": bson.M{
			"date":      m.Date,
			"weight":    m.Weight,
			"height":    m.Height,
			"chest":     m.Chest,
			"waist":     m.Waist,
			"hips":      m.Hips,
			"biceps":    m.Biceps,
			"calves":    m.Calves,
			"updatedAt": time.Now().UTC(),
		},
	}

	return updatedOne(r.collection.UpdateOne(ctx, filter, update))
}

func (r *mongoMeasurementRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Measurement](ctx, cursor)
}

func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, clientIndex("date"))
}

type mongoBodyCompositionRepository struct {
	collection *mongo.Collection
}

func NewMongoBodyCompositionRepository(db *mongo.Database) repository.BodyCompositionRepository {
	return &mongoBodyCompositionRepository{
		collection: db.Collection(bodyCompositionCollectionName),
	}
}

func (r *mongoBodyCompositionRepository) Create(ctx context.Context, bc *domain.BodyComposition) (primitive.ObjectID, error) {
	if bc.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("body composition requires clientId")
	}
	bc.ID = primitive.NewObjectID()
	bc.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, bc); err != nil {
		return primitive.NilObjectID, err
	}
	return bc.ID, nil
}

func (r *mongoBodyCompositionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.BodyComposition, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "measurementDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.BodyComposition](ctx, cursor)
}

func EnsureBodyCompositionIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection, clientIndex("measurementDate"))
}
