package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StandardReason is a predefined justification a client can pick when marking
// a plan exercise as not completed.
type StandardReason struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"` // Unique, lowercase + underscore
	Label     string             `bson:"label" json:"label"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
