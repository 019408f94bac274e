package service

import (
	"context"
	"path"
	"sort"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/storage"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoFolder selects the storage folder of a progress photo upload.
type PhotoFolder string

const (
	PhotoFolderProgress     PhotoFolder = "progress"
	PhotoFolderMeasurements PhotoFolder = "measurements"
)

// ParsePhotoFolder maps the form value to a folder, empty meaning progress.
func ParsePhotoFolder(s string) (PhotoFolder, error) {
	switch PhotoFolder(s) {
	case "", PhotoFolderProgress:
		return PhotoFolderProgress, nil
	case PhotoFolderMeasurements:
		return PhotoFolderMeasurements, nil
	}
	return "", validationError("unknown photo folder %q", s)
}

func (f PhotoFolder) prefix() string {
	if f == PhotoFolderMeasurements {
		return photos.FolderMeasurements
	}
	return photos.FolderProgress
}

type PhotoService interface {
	Upload(ctx context.Context, clientID primitive.ObjectID, folder PhotoFolder, files []FileUpload) ([]photos.Photo, error)
	// List returns the client's photos of a folder, oldest first.
	List(ctx context.Context, clientID primitive.ObjectID, folder PhotoFolder) ([]photos.Photo, error)
	Timeline(ctx context.Context, clientID primitive.ObjectID) (photos.Comparison, error)
}

type photoService struct {
	repo     repository.ProgressPhotoRepository
	store    storage.FileStorage
	uploader *uploader
	clock    Clock
	loc      *time.Location
	log      *logrus.Logger
}

func NewPhotoService(repo repository.ProgressPhotoRepository, store storage.FileStorage, up UploadOptions, clock Clock, loc *time.Location) PhotoService {
	if loc == nil {
		loc = time.UTC
	}
	return &photoService{
		repo:     repo,
		store:    store,
		uploader: newUploader(store, up.Metrics, up.MaxFileSize, up.logger()),
		clock:    clock,
		loc:      loc,
		log:      up.logger(),
	}
}

func (s *photoService) Upload(ctx context.Context, clientID primitive.ObjectID, folder PhotoFolder, files []FileUpload) ([]photos.Photo, error) {
	if err := s.uploader.validate(files, true); err != nil {
		return nil, err
	}

	prefix := folder.prefix()
	now := s.clock.Now()
	stored, err := s.uploader.uploadAll(ctx, prefix, files, func(_ int, f FileUpload) string {
		return prefix + photos.NewObjectName(clientID.Hex(), now, photos.Extension(f.Name, "jpg"))
	})
	if err != nil {
		return nil, err
	}

	records := make([]domain.ProgressPhoto, len(stored))
	for i, f := range stored {
		records[i] = domain.ProgressPhoto{
			ClientID:    clientID,
			Folder:      prefix,
			ObjectKey:   f.Key,
			FileName:    path.Base(f.Key),
			ContentType: f.ContentType,
			Size:        f.Size,
			CapturedAt:  now,
			UploadedAt:  now,
		}
	}
	// the objects stay reachable through the storage listing
	if err = s.repo.CreateMany(ctx, records); err != nil {
		s.log.WithError(err).WithField("clientId", clientID.Hex()).Warn("failed to store photo metadata")
	}

	list := make([]photos.Photo, 0, len(records))
	for _, r := range records {
		url, err := s.store.PublicURL(ctx, r.ObjectKey)
		if err != nil {
			s.log.WithError(err).WithField("key", r.ObjectKey).Warn("cannot resolve object url")
			continue
		}
		list = append(list, photos.Photo{ID: r.ID.Hex(), Key: r.ObjectKey, URL: url, TakenAt: r.CapturedAt})
	}
	return list, nil
}

func (s *photoService) List(ctx context.Context, clientID primitive.ObjectID, folder PhotoFolder) ([]photos.Photo, error) {
	prefix := folder.prefix()
	records, err := s.repo.GetByClientID(ctx, clientID, prefix)
	if err != nil {
		return nil, err
	}
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		id      string
		key     string
		takenAt time.Time
	}
	seen := make(map[string]bool, len(records))
	candidates := make([]candidate, 0, len(records))
	for _, r := range records {
		seen[r.ObjectKey] = true
		candidates = append(candidates, candidate{id: r.ID.Hex(), key: r.ObjectKey, takenAt: r.CapturedAt})
	}
	// objects without a metadata record, keyed by the client prefix
	now := s.clock.Now()
	for _, obj := range photos.FilterByClient(objects, clientID.Hex()) {
		if seen[obj.Key] {
			continue
		}
		candidates = append(candidates, candidate{key: obj.Key, takenAt: photos.CaptureDate(obj, clientID.Hex(), now)})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].takenAt.Before(candidates[j].takenAt) })

	list := make([]photos.Photo, 0, len(candidates))
	for _, c := range candidates {
		url, err := s.store.PublicURL(ctx, c.key)
		if err != nil {
			s.log.WithError(err).WithField("key", c.key).Warn("cannot resolve object url")
			continue
		}
		list = append(list, photos.Photo{ID: c.id, Key: c.key, URL: url, TakenAt: c.takenAt})
	}
	return list, nil
}

func (s *photoService) Timeline(ctx context.Context, clientID primitive.ObjectID) (photos.Comparison, error) {
	list, err := s.List(ctx, clientID, PhotoFolderProgress)
	if err != nil {
		return photos.Comparison{Days: []photos.DayGroup{}}, err
	}
	return photos.Timeline(list, s.loc), nil
}
