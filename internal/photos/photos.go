// Package photos implements the object naming convention
// {entityId}-{unixMillis}-{uuid}.{ext}, client-anchored filtering of
// storage listings and capture date recovery for legacy objects.
package photos

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"hardcase/coaching-app/internal/storage"

	"github.com/google/uuid"
)

const (
	FolderProgress     = "progress-photos/"
	FolderMeasurements = "measurements-photos/"
	FolderMedical      = "medical-data/"
	folderNutrition    = "nutrition-photos/"
)

// DefaultMaxSize is the upload limit when none is configured.
const DefaultMaxSize int64 = 25 << 20

// Timestamps before 2000-01-01 are treated as garbage.
var minTimestamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	ErrInvalidFileType = errors.New("only image files can be uploaded")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrEmptyFile       = errors.New("file is empty")
)

// NutritionFolder is the per-client, per-day folder of nutrition photos.
func NutritionFolder(clientID, date string) string {
	return folderNutrition + clientID + "/" + date + "/"
}

// ObjectName builds {entityId}-{unixMillis}-{uuid}.{ext}.
func ObjectName(entityID string, ts time.Time, id uuid.UUID, ext string) string {
	return fmt.Sprintf("%s-%d-%s.%s", entityID, ts.UnixMilli(), id.String(), ext)
}

// NewObjectName is ObjectName with a fresh random uuid.
func NewObjectName(entityID string, ts time.Time, ext string) string {
	return ObjectName(entityID, ts, uuid.New(), ext)
}

// Extension returns the lowercased extension of originalName without the
// dot, or fallback when the name has none.
func Extension(originalName, fallback string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(originalName)), ".")
	if ext == "" {
		return fallback
	}
	return ext
}

func clientPattern(clientID string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(clientID) + "-")
}

// FilterByClient keeps the objects whose file name starts with "{clientID}-".
// The anchor keeps client "abc" from seeing the files of client "abc123".
func FilterByClient(objects []storage.ObjectInfo, clientID string) []storage.ObjectInfo {
	filtered := []storage.ObjectInfo{}
	if clientID == "" {
		return filtered
	}
	re := clientPattern(clientID)
	for _, obj := range objects {
		if re.MatchString(obj.Name()) {
			filtered = append(filtered, obj)
		}
	}
	return filtered
}

// ParseTimestamp reads the millisecond timestamp that follows the
// "{clientID}-" prefix of name.
func ParseTimestamp(name, clientID string) (time.Time, bool) {
	rest := strings.TrimPrefix(name, clientID+"-")
	if rest == name && clientID != "" {
		return time.Time{}, false
	}
	segment, _, _ := strings.Cut(rest, "-")
	ms, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	ts := time.UnixMilli(ms).UTC()
	if ts.Before(minTimestamp) {
		return time.Time{}, false
	}
	return ts, true
}

// CaptureDate prefers the storage creation metadata, then the file name
// timestamp. Anything missing or invalid falls back to now.
func CaptureDate(obj storage.ObjectInfo, clientID string, now time.Time) time.Time {
	if !obj.LastModified.IsZero() && !obj.LastModified.Before(minTimestamp) {
		return obj.LastModified
	}
	if ts, ok := ParseTimestamp(obj.Name(), clientID); ok {
		return ts
	}
	return now
}

// ValidateUpload runs before any network call. A non-positive maxSize
// means DefaultMaxSize.
func ValidateUpload(contentType string, size int64, requireImage bool, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > maxSize {
		return fmt.Errorf("%w: %d bytes, limit is %d MB", ErrFileTooLarge, size, maxSize>>20)
	}
	if requireImage && !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, contentType)
	}
	return nil
}

// Photo is a displayable progress photo.
type Photo struct {
	ID      string    `json:"id,omitempty"`
	Key     string    `json:"key"`
	URL     string    `json:"url"`
	TakenAt time.Time `json:"takenAt"`
}

type DayGroup struct {
	Date   string  `json:"date"`
	Photos []Photo `json:"photos"`
}

// Comparison is the before/after pair of the progress view.
type Comparison struct {
	Days  []DayGroup `json:"days"`
	First *DayGroup  `json:"first,omitempty"`
	Last  *DayGroup  `json:"last,omitempty"`
}

// Timeline groups photos by local capture day, oldest first.
func Timeline(photos []Photo, loc *time.Location) Comparison {
	if loc == nil {
		loc = time.UTC
	}
	sorted := append([]Photo(nil), photos...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TakenAt.Before(sorted[j].TakenAt) })

	cmp := Comparison{Days: []DayGroup{}}
	for _, p := range sorted {
		key := p.TakenAt.In(loc).Format("2006-01-02")
		if n := len(cmp.Days); n > 0 && cmp.Days[n-1].Date == key {
			cmp.Days[n-1].Photos = append(cmp.Days[n-1].Photos, p)
			continue
		}
		cmp.Days = append(cmp.Days, DayGroup{Date: key, Photos: []Photo{p}})
	}
	if n := len(cmp.Days); n > 0 {
		cmp.First = &cmp.Days[0]
		cmp.Last = &cmp.Days[n-1]
	}
	return cmp
}
