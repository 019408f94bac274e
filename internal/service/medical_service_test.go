package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfFile(name string) FileUpload {
	return FileUpload{
		Name:        name,
		ContentType: "application/pdf",
		Size:        3,
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("pdf")), nil },
	}
}

func TestMedicalRecordLifecycle(t *testing.T) {
	trainer := trainerUser()
	client := clientUser("anna@example.com", &trainer.ID)
	repo := newFakeMedical()
	store := storage.NewMemoryStorage("data")
	svc := NewMedicalService(repo, newFakeUsers(trainer, client), store, testUploadOptions(), fixedClock(scheduleNow))
	ctx := context.Background()

	record, err := svc.Create(ctx, client.ID, MedicalInput{
		Category:    "blood_test",
		Description: "Annual check",
		Date:        "2024-05-10",
		Files:       []FileUpload{pdfFile("results.pdf"), imageFile("scan.jpg", "img")},
	})
	require.NoError(t, err)
	require.Len(t, record.Files, 2)
	assert.Equal(t, "results.pdf", record.Files[0].OriginalName)
	assert.True(t, strings.HasPrefix(record.Files[0].FilePath, photos.FolderMedical+client.ID.Hex()+"/"))
	assert.NotEmpty(t, record.Files[0].URL)
	assert.Equal(t, client.ID, record.CreatedBy)

	list, err := svc.List(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Files, 2)

	forTrainer, err := svc.ListForTrainer(ctx, trainer.ID, client.ID)
	require.NoError(t, err)
	assert.Len(t, forTrainer, 1)

	_, err = svc.ListForTrainer(ctx, newID(), client.ID)
	assert.ErrorIs(t, err, ErrClientNotManaged)

	assert.ErrorIs(t, svc.Delete(ctx, newID(), record.ID), ErrMedicalRecordNotFound)

	require.NoError(t, svc.Delete(ctx, client.ID, record.ID))
	objects, err := store.List(ctx, photos.FolderMedical)
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.Empty(t, repo.records)

	assert.ErrorIs(t, svc.Delete(ctx, client.ID, record.ID), ErrMedicalRecordNotFound)
}

func TestMedicalValidation(t *testing.T) {
	store := storage.NewMemoryStorage("data")
	svc := NewMedicalService(newFakeMedical(), newFakeUsers(), store, testUploadOptions(), fixedClock(scheduleNow))
	ctx := context.Background()

	for name, in := range map[string]MedicalInput{
		"unknown category": {Category: "horoscope", Date: "2024-05-10", Files: []FileUpload{pdfFile("a.pdf")}},
		"bad date":         {Category: "mri", Date: "May 10", Files: []FileUpload{pdfFile("a.pdf")}},
		"no files":         {Category: "mri", Date: "2024-05-10"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, newID(), in)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}
