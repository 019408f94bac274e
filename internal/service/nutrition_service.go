package service

import (
	"context"
	"errors"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/stats"
	"hardcase/coaching-app/internal/storage"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNutritionEntryNotFound = errors.New("no nutrition entry for this day")

type NutritionInput struct {
	Date     string
	Proteins float64
	Fats     float64
	Carbs    float64
	// Calories are derived from the macros when zero.
	Calories float64
	Water    float64
	Notes    string
}

type NutritionDay struct {
	domain.NutritionEntry
	Photos []string `json:"photos"`
}

type NutritionHistory struct {
	Entries []NutritionDay       `json:"entries"`
	Stats   stats.NutritionStats `json:"stats"`
}

type NutritionService interface {
	SaveDay(ctx context.Context, clientID primitive.ObjectID, in NutritionInput) (*domain.NutritionEntry, error)
	ListEntries(ctx context.Context, clientID primitive.ObjectID) (*NutritionHistory, error)
	// AttachPhotos uploads meal photos of an existing day entry and returns their URLs.
	AttachPhotos(ctx context.Context, clientID primitive.ObjectID, date string, files []FileUpload) ([]string, error)
}

type nutritionService struct {
	repo     repository.NutritionRepository
	store    storage.FileStorage
	uploader *uploader
	clock    Clock
	log      *logrus.Logger
}

func NewNutritionService(repo repository.NutritionRepository, store storage.FileStorage, up UploadOptions, clock Clock) NutritionService {
	return &nutritionService{
		repo:     repo,
		store:    store,
		uploader: newUploader(store, up.Metrics, up.MaxFileSize, up.logger()),
		clock:    clock,
		log:      up.logger(),
	}
}

func (s *nutritionService) SaveDay(ctx context.Context, clientID primitive.ObjectID, in NutritionInput) (*domain.NutritionEntry, error) {
	date, err := dayKey(in.Date)
	if err != nil {
		return nil, err
	}
	for name, v := range map[string]float64{
		"proteins": in.Proteins,
		"fats":     in.Fats,
		"carbs":    in.Carbs,
		"calories": in.Calories,
		"water":    in.Water,
	} {
		if v < 0 {
			return nil, validationError("%s must not be negative", name)
		}
	}

	calories := in.Calories
	if calories == 0 {
		calories = in.Proteins*stats.KcalPerGramProtein + in.Fats*stats.KcalPerGramFat + in.Carbs*stats.KcalPerGramCarbs
	}

	entry := &domain.NutritionEntry{
		ClientID: clientID,
		Date:     date,
		Proteins: in.Proteins,
		Fats:     in.Fats,
		Carbs:    in.Carbs,
		Calories: calories,
		Water:    in.Water,
		Notes:    in.Notes,
	}
	if err = s.repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *nutritionService) ListEntries(ctx context.Context, clientID primitive.ObjectID) (*NutritionHistory, error) {
	entries, err := s.repo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	days := make([]NutritionDay, len(entries))
	for i, e := range entries {
		days[i] = NutritionDay{NutritionEntry: e, Photos: publicURLs(ctx, s.store, e.PhotoKeys, s.log)}
	}
	return &NutritionHistory{Entries: days, Stats: stats.Nutrition(entries)}, nil
}

func (s *nutritionService) AttachPhotos(ctx context.Context, clientID primitive.ObjectID, date string, files []FileUpload) ([]string, error) {
	date, err := dayKey(date)
	if err != nil {
		return nil, err
	}
	if err = s.uploader.validate(files, true); err != nil {
		return nil, err
	}
	if _, err = s.repo.GetByClientAndDate(ctx, clientID, date); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNutritionEntryNotFound
		}
		return nil, err
	}

	folder := photos.NutritionFolder(clientID.Hex(), date)
	now := s.clock.Now()
	stored, err := s.uploader.uploadAll(ctx, folder, files, func(_ int, f FileUpload) string {
		return folder + photos.NewObjectName(clientID.Hex(), now, photos.Extension(f.Name, "jpg"))
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(stored))
	for i, f := range stored {
		keys[i] = f.Key
	}
	if err = s.repo.AddPhotoKeys(ctx, clientID, date, keys); err != nil {
		return nil, err
	}
	return publicURLs(ctx, s.store, keys, s.log), nil
}

// publicURLs resolves keys, skipping the ones that cannot be resolved.
func publicURLs(ctx context.Context, store storage.FileStorage, keys []string, log *logrus.Logger) []string {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := store.PublicURL(ctx, key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("cannot resolve object url")
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
