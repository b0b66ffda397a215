package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the shared catalog.
// Only administrators maintain the catalog; trainers and clients read it.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"` // Unique among non-hidden exercises
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// VideoToken is the object key of the demonstration video in the video
	// bucket. Empty when no video has been uploaded yet.
	VideoToken    string  `bson:"videoToken,omitempty" json:"videoToken,omitempty"`
	DefaultWeight float64 `bson:"defaultWeight,omitempty" json:"defaultWeight,omitempty"`
	Tempo         string  `bson:"tempo,omitempty" json:"tempo,omitempty"` // e.g. "3-0-3"

	// IsHidden marks a soft-deleted exercise. Hidden exercises are invisible
	// to non-admin readers.
	IsHidden bool `bson:"isHidden" json:"isHidden"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
