package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/storage"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrMedicalRecordNotFound = errors.New("medical record not found")

type MedicalInput struct {
	Category    string
	Description string
	Date        string
	Files       []FileUpload
}

type MedicalFileView struct {
	domain.MedicalFile
	URL string `json:"url,omitempty"`
}

// MedicalRecordView is a record with resolvable file URLs.
type MedicalRecordView struct {
	domain.MedicalRecord
	Files []MedicalFileView `json:"files"`
}

type MedicalService interface {
	Create(ctx context.Context, clientID primitive.ObjectID, in MedicalInput) (*MedicalRecordView, error)
	List(ctx context.Context, clientID primitive.ObjectID) ([]MedicalRecordView, error)
	// Delete removes the stored files first, then the record.
	Delete(ctx context.Context, clientID, recordID primitive.ObjectID) error
	ListForTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]MedicalRecordView, error)
}

type medicalService struct {
	repo     repository.MedicalRepository
	userRepo repository.UserRepository
	store    storage.FileStorage
	uploader *uploader
	clock    Clock
	log      *logrus.Logger
}

func NewMedicalService(repo repository.MedicalRepository, userRepo repository.UserRepository, store storage.FileStorage, up UploadOptions, clock Clock) MedicalService {
	return &medicalService{
		repo:     repo,
		userRepo: userRepo,
		store:    store,
		uploader: newUploader(store, up.Metrics, up.MaxFileSize, up.logger()),
		clock:    clock,
		log:      up.logger(),
	}
}

func validCategory(c string) bool {
	for _, known := range domain.MedicalCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (s *medicalService) Create(ctx context.Context, clientID primitive.ObjectID, in MedicalInput) (*MedicalRecordView, error) {
	category := strings.TrimSpace(in.Category)
	if !validCategory(category) {
		return nil, validationError("unknown medical category %q", in.Category)
	}
	date, err := dayKey(in.Date)
	if err != nil {
		return nil, err
	}
	if err = s.uploader.validate(in.Files, false); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	prefix := photos.FolderMedical + clientID.Hex() + "/"
	stored, err := s.uploader.uploadAll(ctx, photos.FolderMedical, in.Files, func(_ int, f FileUpload) string {
		return prefix + photos.NewObjectName(clientID.Hex(), now, photos.Extension(f.Name, "bin"))
	})
	if err != nil {
		return nil, err
	}

	record := &domain.MedicalRecord{
		ClientID:    clientID,
		Category:    category,
		Description: in.Description,
		Date:        date,
		CreatedBy:   clientID,
		CreatedAt:   now,
		Files:       make([]domain.MedicalFile, len(stored)),
	}
	for i, f := range stored {
		record.Files[i] = domain.MedicalFile{
			FilePath:     f.Key,
			FileName:     path.Base(f.Key),
			OriginalName: f.Name,
			FileType:     f.ContentType,
			FileSize:     f.Size,
		}
	}

	id, err := s.repo.Create(ctx, record)
	if err != nil {
		s.dropFiles(record)
		return nil, err
	}
	record.ID = id

	view := s.view(ctx, *record)
	return &view, nil
}

func (s *medicalService) List(ctx context.Context, clientID primitive.ObjectID) ([]MedicalRecordView, error) {
	records, err := s.repo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	views := make([]MedicalRecordView, len(records))
	for i, r := range records {
		views[i] = s.view(ctx, r)
	}
	return views, nil
}

func (s *medicalService) ListForTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]MedicalRecordView, error) {
	if _, err := managedClient(ctx, s.userRepo, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.List(ctx, clientID)
}

func (s *medicalService) Delete(ctx context.Context, clientID, recordID primitive.ObjectID) error {
	record, err := s.repo.GetByID(ctx, recordID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMedicalRecordNotFound
		}
		return err
	}

	keys := make([]string, 0, len(record.Files))
	for _, f := range record.Files {
		if f.FilePath != "" {
			keys = append(keys, f.FilePath)
		}
	}
	if len(keys) > 0 {
		if err = s.store.Delete(ctx, keys...); err != nil {
			return err
		}
	}

	err = s.repo.Delete(ctx, recordID, clientID)
	if errors.Is(err, repository.ErrDeleteFailed) {
		return ErrMedicalRecordNotFound
	}
	return err
}

func (s *medicalService) view(ctx context.Context, r domain.MedicalRecord) MedicalRecordView {
	view := MedicalRecordView{MedicalRecord: r, Files: make([]MedicalFileView, len(r.Files))}
	for i, f := range r.Files {
		view.Files[i] = MedicalFileView{MedicalFile: f}
		url, err := s.store.PublicURL(ctx, f.FilePath)
		if err != nil {
			s.log.WithError(err).WithField("key", f.FilePath).Warn("cannot resolve medical file url")
			continue
		}
		view.Files[i].URL = url
	}
	return view
}

// dropFiles removes the objects of a record that could not be saved.
func (s *medicalService) dropFiles(r *domain.MedicalRecord) {
	keys := make([]string, len(r.Files))
	for i, f := range r.Files {
		keys[i] = f.FilePath
	}
	if err := s.store.Delete(context.Background(), keys...); err != nil {
		s.log.WithError(err).WithField("keys", len(keys)).Warn("failed to remove files of an unsaved medical record")
	}
}
