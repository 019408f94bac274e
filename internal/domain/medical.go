package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicalRecord groups documents of one category uploaded for a client.
type MedicalRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	Date        string             `bson:"date" json:"date"`
	Files       []MedicalFile      `bson:"files" json:"files"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type MedicalFile struct {
	FilePath     string `bson:"filePath" json:"-"`
	FileName     string `bson:"fileName" json:"fileName"`
	OriginalName string `bson:"originalName" json:"originalName"`
	FileType     string `bson:"fileType" json:"fileType"`
	FileSize     int64  `bson:"fileSize" json:"fileSize"`
}

// MedicalCategories accepted on upload.
var MedicalCategories = []string{"blood_test", "ultrasound", "x_ray", "mri", "prescription", "other"}
