package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID converts a hex id from the HTTP layer into an ObjectID, surfacing
// a ValidationError on the named field when malformed.
func parseID(hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, &ValidationError{Field: field, Message: "malformed id"}
	}
	return id, nil
}
