package service

import (
	"context"
	"errors"
	"io"

	"hardcase/coaching-app/internal/metrics"
	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

var ErrNoFiles = errors.New("no files selected")

// FileUpload is a file received from a multipart form.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// storedFile is an uploaded FileUpload and its object key.
type storedFile struct {
	FileUpload
	Key string
}

// UploadOptions configures the services that write to object storage.
type UploadOptions struct {
	MaxFileSize int64
	Metrics     *metrics.Manager
	Log         *logrus.Logger
}

func (o UploadOptions) logger() *logrus.Logger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

// uploader sends a batch of files to one bucket concurrently.
type uploader struct {
	store   storage.FileStorage
	metrics *metrics.Manager
	maxSize int64
	log     *logrus.Logger
}

func newUploader(store storage.FileStorage, m *metrics.Manager, maxSize int64, log *logrus.Logger) *uploader {
	return &uploader{store: store, metrics: m, maxSize: maxSize, log: log}
}

// validate checks every file before anything is sent.
func (u *uploader) validate(files []FileUpload, requireImage bool) error {
	if len(files) == 0 {
		return invalid(ErrNoFiles)
	}
	for _, f := range files {
		if err := photos.ValidateUpload(f.ContentType, f.Size, requireImage, u.maxSize); err != nil {
			return invalid(err)
		}
	}
	return nil
}

// uploadAll stores every file under keyFor(i). The batch succeeds only when
// every upload does; otherwise the first error is returned and the objects
// already written are removed.
func (u *uploader) uploadAll(ctx context.Context, folder string, files []FileUpload, keyFor func(i int, f FileUpload) string) ([]storedFile, error) {
	stored := make([]storedFile, len(files))
	for i, f := range files {
		stored[i] = storedFile{FileUpload: f, Key: keyFor(i, f)}
	}

	done := make([]bool, len(files))
	p := pool.New().WithContext(ctx).WithFirstError()
	for i := range stored {
		i := i
		p.Go(func(ctx context.Context) error {
			err := u.put(ctx, stored[i])
			u.metrics.UploadResult(folder, err)
			done[i] = err == nil
			return err
		})
	}

	if err := p.Wait(); err != nil {
		u.log.WithError(err).WithFields(logrus.Fields{"bucket": u.store.Bucket(), "folder": folder, "files": len(files)}).Error("batch upload failed")
		u.discard(stored, done)
		return nil, err
	}
	return stored, nil
}

func (u *uploader) put(ctx context.Context, f storedFile) error {
	body, err := f.Open()
	if err != nil {
		return err
	}
	defer body.Close()

	return u.store.Upload(ctx, f.Key, body, f.Size, f.ContentType)
}

func (u *uploader) discard(stored []storedFile, done []bool) {
	var keys []string
	for i, ok := range done {
		if ok {
			keys = append(keys, stored[i].Key)
		}
	}
	if len(keys) == 0 {
		return
	}
	// the request context may already be cancelled
	if err := u.store.Delete(context.Background(), keys...); err != nil {
		u.log.WithError(err).WithField("keys", len(keys)).Warn("failed to remove objects of a failed batch")
	}
}
