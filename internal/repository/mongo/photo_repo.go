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

const photoCollectionName = "progress_photos"

// mongoPhotoRepository keeps the metadata next to the binaries in object storage.
type mongoPhotoRepository struct {
	collection *mongo.Collection
}

func NewMongoPhotoRepository(db *mongo.Database) repository.ProgressPhotoRepository {
	return &mongoPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

func (r *mongoPhotoRepository) CreateMany(ctx context.Context, photos []domain.ProgressPhoto) error {
	if len(photos) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(photos))
	for i := range photos {
		if photos[i].ClientID == primitive.NilObjectID || photos[i].ObjectKey == "" {
			return errors.New("photo requires clientId and objectKey")
		}
		photos[i].ID = primitive.NewObjectID()
		photos[i].UploadedAt = now
		docs[i] = photos[i]
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoPhotoRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID, folder string) ([]domain.ProgressPhoto, error) {
	filter := bson.M{"clientId": clientID}
	if folder != "" {
		filter["folder"] = folder
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "capturedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.ProgressPhoto](ctx, cursor)
}

func EnsurePhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	return createIndexes(ctx, collection,
		mongo.IndexModel{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "folder", Value: 1}, {Key: "capturedAt", Value: 1}}},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
}
