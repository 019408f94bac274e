package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores ownership and capture date of an uploaded image.
// The binary itself lives in object storage under ObjectKey.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	Folder      string             `bson:"folder" json:"folder"`
	ObjectKey   string             `bson:"objectKey" json:"-"`
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	CapturedAt  time.Time          `bson:"capturedAt" json:"capturedAt"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
