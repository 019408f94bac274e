package photos

import (
	"strconv"
	"testing"
	"time"

	"hardcase/coaching-app/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	id := uuid.MustParse("6f1c2a44-8d4e-4f5a-9b61-2f0c8e7d3a10")
	ts := time.UnixMilli(1710000000123)

	name := ObjectName("abc", ts, id, "png")
	assert.Equal(t, "abc-1710000000123-6f1c2a44-8d4e-4f5a-9b61-2f0c8e7d3a10.png", name)

	parsed, ok := ParseTimestamp(name, "abc")
	require.True(t, ok)
	assert.Equal(t, ts.UTC(), parsed)

	assert.Regexp(t, `^abc-\d+-[0-9a-f-]{36}\.jpg$`, NewObjectName("abc", ts, "jpg"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("IMG_0001.JPG", "bin"))
	assert.Equal(t, "pdf", Extension("blood test.pdf", "bin"))
	assert.Equal(t, "bin", Extension("noext", "bin"))
}

func TestNutritionFolder(t *testing.T) {
	assert.Equal(t, "nutrition-photos/abc/2024-03-15/", NutritionFolder("abc", "2024-03-15"))
}

func TestFilterByClient_Anchored(t *testing.T) {
	objects := []storage.ObjectInfo{
		{Key: FolderProgress + "abc-1-x.png"},
		{Key: FolderProgress + "abc123-1-y.png"},
		{Key: FolderProgress + "xabc-1-z.png"},
	}

	filtered := FilterByClient(objects, "abc")
	require.Len(t, filtered, 1)
	assert.Equal(t, "abc-1-x.png", filtered[0].Name())

	assert.Empty(t, FilterByClient(objects, ""))
}

func TestFilterByClient_QuotesMeta(t *testing.T) {
	objects := []storage.ObjectInfo{{Key: "a.c-1-x.png"}, {Key: "abc-1-y.png"}}

	filtered := FilterByClient(objects, "a.c")
	require.Len(t, filtered, 1)
	assert.Equal(t, "a.c-1-x.png", filtered[0].Key)
}

func TestCaptureDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ts := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	withMeta := storage.ObjectInfo{Key: "abc-1-x.png", LastModified: created}
	assert.Equal(t, created, CaptureDate(withMeta, "abc", now))

	fromName := storage.ObjectInfo{Key: "progress-photos/abc-" + itoa(ts.UnixMilli()) + "-x.png"}
	assert.Equal(t, ts, CaptureDate(fromName, "abc", now))

	garbage := storage.ObjectInfo{Key: "abc-notanumber-x.png"}
	assert.Equal(t, now, CaptureDate(garbage, "abc", now))

	tooOld := storage.ObjectInfo{Key: "abc-1-x.png"}
	assert.Equal(t, now, CaptureDate(tooOld, "abc", now))
}

func TestParseTimestamp_ClientIDWithDashes(t *testing.T) {
	ts := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	name := "1b2c-3d4e-" + itoa(ts.UnixMilli()) + "-u.png"

	parsed, ok := ParseTimestamp(name, "1b2c-3d4e")
	require.True(t, ok)
	assert.Equal(t, ts, parsed)

	_, ok = ParseTimestamp(name, "other")
	assert.False(t, ok)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/png", 1024, true, 0))
	assert.NoError(t, ValidateUpload("application/pdf", 1024, false, 0))

	assert.ErrorIs(t, ValidateUpload("application/pdf", 1024, true, 0), ErrInvalidFileType)
	assert.ErrorIs(t, ValidateUpload("image/jpeg", DefaultMaxSize+1, true, 0), ErrFileTooLarge)
	assert.NoError(t, ValidateUpload("image/jpeg", DefaultMaxSize, true, 0))
	assert.ErrorIs(t, ValidateUpload("image/jpeg", 2048, true, 1024), ErrFileTooLarge)
	assert.ErrorIs(t, ValidateUpload("image/jpeg", 0, true, 0), ErrEmptyFile)
}

func TestTimeline(t *testing.T) {
	photos := []Photo{
		{Key: "c", TakenAt: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)},
		{Key: "a", TakenAt: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)},
		{Key: "b", TakenAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
	}

	cmp := Timeline(photos, time.UTC)
	require.Len(t, cmp.Days, 2)
	require.NotNil(t, cmp.First)
	assert.Equal(t, "2024-01-05", cmp.First.Date)
	assert.Len(t, cmp.First.Photos, 2)
	assert.Equal(t, "2024-03-01", cmp.Last.Date)

	empty := Timeline(nil, nil)
	assert.Empty(t, empty.Days)
	assert.Nil(t, empty.First)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
