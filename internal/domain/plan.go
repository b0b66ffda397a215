package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan represents a training plan. Both TrainerID and ClientID are optional:
// an admin may create an unassigned plan and wire it up later.
type Plan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// TrainerID, when set, must reference a user with role=trainer.
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId"`
	// ClientID, when set, must reference a user with role=client.
	ClientID *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId"`

	// IsHidden marks a soft-deleted plan.
	IsHidden bool `bson:"isHidden" json:"isHidden"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OwnedByTrainer reports whether the plan belongs to the given trainer.
func (p *Plan) OwnedByTrainer(trainerID primitive.ObjectID) bool {
	return p.TrainerID != nil && *p.TrainerID == trainerID
}

// OwnedByClient reports whether the plan is assigned to the given client.
func (p *Plan) OwnedByClient(clientID primitive.ObjectID) bool {
	return p.ClientID != nil && *p.ClientID == clientID
}
