package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const identityCollectionName = "identities"

// identityDoc is the stored shape of one auth identity.
type identityDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"` // Lowercase, unique
	PasswordHash string             `bson:"passwordHash"`
	Role         string             `bson:"role,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// mongoManager implements Manager on a MongoDB credentials collection.
type mongoManager struct {
	collection *mongo.Collection
}

// NewMongoManager creates an identity manager backed by the given database.
func NewMongoManager(db *mongo.Database) Manager {
	return &mongoManager{
		collection: db.Collection(identityCollectionName),
	}
}

// Create provisions a new identity with a random initial secret.
func (m *mongoManager) Create(ctx context.Context, email string, meta Metadata) (primitive.ObjectID, string, error) {
	if email == "" {
		return primitive.NilObjectID, "", errors.New("email is required")
	}

	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	now := time.Now().UTC()
	doc := identityDoc{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         meta.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, "", ErrIdentityExists
		}
		return primitive.NilObjectID, "", err
	}
	return doc.ID, secret, nil
}

// Delete removes an identity row.
func (m *mongoManager) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// Verify checks credentials and returns the identity id.
func (m *mongoManager) Verify(ctx context.Context, email, password string) (primitive.ObjectID, error) {
	var doc identityDoc
	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Unknown email and wrong password are indistinguishable.
			return primitive.NilObjectID, ErrBadCredentials
		}
		return primitive.NilObjectID, err
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return primitive.NilObjectID, ErrBadCredentials
	}
	return doc.ID, nil
}

// SetPassword replaces the stored credential.
func (m *mongoManager) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"passwordHash": string(hash),
		"updatedAt":    time.Now().UTC(),
	}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// EnsureIdentityIndexes creates necessary indexes for the identities collection.
func EnsureIdentityIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
