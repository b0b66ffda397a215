package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanExercise is one exercise entry within a Plan, carrying the prescription
// (sets/reps/tempo/weight) and the client's completion state.
type PlanExercise struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`

	// SortOrder is the ordering key within the plan. Uniqueness within a plan
	// is not enforced atomically; concurrent updates can interleave orders.
	SortOrder int `bson:"sortOrder" json:"sortOrder"`

	Sets          int     `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps          int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Tempo         string  `bson:"tempo,omitempty" json:"tempo,omitempty"`
	DefaultWeight float64 `bson:"defaultWeight,omitempty" json:"defaultWeight,omitempty"`

	// Completion state. A not-completed mark requires either ReasonID or
	// CustomReason; completing the exercise wipes both.
	IsCompleted  bool                `bson:"isCompleted" json:"isCompleted"`
	ReasonID     *primitive.ObjectID `bson:"reasonId,omitempty" json:"reasonId,omitempty"`
	CustomReason string              `bson:"customReason,omitempty" json:"customReason,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
