package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoUploadAndList(t *testing.T) {
	repo := &fakePhotos{}
	store := storage.NewMemoryStorage("photos")
	svc := NewPhotoService(repo, store, testUploadOptions(), fixedClock(scheduleNow), nil)
	ctx := context.Background()
	clientID := newID()
	hex := clientID.Hex()

	uploaded, err := svc.Upload(ctx, clientID, PhotoFolderProgress, []FileUpload{imageFile("front.jpg", "a"), imageFile("side.jpg", "b")})
	require.NoError(t, err)
	require.Len(t, uploaded, 2)
	assert.Len(t, repo.photos, 2)
	for _, p := range uploaded {
		assert.True(t, store.Has(p.Key))
		assert.Equal(t, scheduleNow, p.TakenAt)
	}

	// objects written before metadata records existed
	legacy := photos.FolderProgress + hex + "-1700000000000-legacy.jpg"
	store.Put(legacy, []byte("old"), time.Time{})
	store.Put(photos.FolderProgress+hex+"ff-1700000000000-other.jpg", []byte("other"), time.Time{})
	store.Put(photos.FolderMeasurements+hex+"-1700000000000-waist.jpg", []byte("waist"), time.Time{})

	list, err := svc.List(ctx, clientID, PhotoFolderProgress)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, legacy, list[0].Key)
	assert.Empty(t, list[0].ID)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), list[0].TakenAt)
	assert.NotEmpty(t, list[1].ID)

	measurements, err := svc.List(ctx, clientID, PhotoFolderMeasurements)
	require.NoError(t, err)
	assert.Len(t, measurements, 1)

	timeline, err := svc.Timeline(ctx, clientID)
	require.NoError(t, err)
	require.NotNil(t, timeline.First)
	require.NotNil(t, timeline.Last)
	assert.Equal(t, "2023-11-14", timeline.First.Date)
	assert.Equal(t, "2024-05-15", timeline.Last.Date)
	assert.Len(t, timeline.Last.Photos, 2)
}

func TestPhotoUploadFailureLeavesNothing(t *testing.T) {
	repo := &fakePhotos{}
	store := storage.NewMemoryStorage("photos")
	svc := NewPhotoService(repo, store, testUploadOptions(), fixedClock(scheduleNow), nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, newID(), PhotoFolderProgress, []FileUpload{imageFile("ok.jpg", "a"), brokenFile("broken.png")})
	require.Error(t, err)

	objects, err := store.List(ctx, photos.FolderProgress)
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.Empty(t, repo.photos)
}

func TestPhotoUploadValidation(t *testing.T) {
	store := storage.NewMemoryStorage("photos")
	svc := NewPhotoService(&fakePhotos{}, store, testUploadOptions(), fixedClock(scheduleNow), nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, newID(), PhotoFolderProgress, nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	big := imageFile("big.jpg", "x")
	big.Size = 2 << 20
	_, err = svc.Upload(ctx, newID(), PhotoFolderProgress, []FileUpload{imageFile("ok.jpg", "a"), big})
	assert.ErrorIs(t, err, photos.ErrFileTooLarge)
	assert.True(t, IsValidation(err))

	objects, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, objects)

	_, err = ParsePhotoFolder("medical")
	assert.True(t, IsValidation(err))
	folder, err := ParsePhotoFolder("")
	require.NoError(t, err)
	assert.Equal(t, PhotoFolderProgress, folder)
}

func TestPhotoMetadataFailureKeepsUpload(t *testing.T) {
	repo := &fakePhotos{err: errors.New("mongo down")}
	store := storage.NewMemoryStorage("photos")
	svc := NewPhotoService(repo, store, testUploadOptions(), fixedClock(scheduleNow), nil)
	ctx := context.Background()
	clientID := newID()

	uploaded, err := svc.Upload(ctx, clientID, PhotoFolderProgress, []FileUpload{imageFile("front.jpg", "a")})
	require.NoError(t, err)
	require.Len(t, uploaded, 1)

	repo.err = nil
	list, err := svc.List(ctx, clientID, PhotoFolderProgress)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uploaded[0].Key, list[0].Key)
}
