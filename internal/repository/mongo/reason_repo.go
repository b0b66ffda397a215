package mongo

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reasonCollectionName = "standard_reasons"

// mongoReasonRepository implements repository.ReasonRepository using MongoDB.
type mongoReasonRepository struct {
	collection *mongo.Collection
}

// NewMongoReasonRepository creates a new standard reason repository.
func NewMongoReasonRepository(db *mongo.Database) repository.ReasonRepository {
	return &mongoReasonRepository{
		collection: db.Collection(reasonCollectionName),
	}
}

// Create inserts a new standard reason.
func (r *mongoReasonRepository) Create(ctx context.Context, reason *domain.StandardReason) (primitive.ObjectID, error) {
	if reason.Code == "" || reason.Label == "" {
		return primitive.NilObjectID, errors.New("reason code and label are required")
	}

	reason.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	reason.CreatedAt = now
	reason.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, reason)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted reason ID")
	}
	return insertedID, nil
}

// GetByID retrieves a standard reason by its ID.
func (r *mongoReasonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StandardReason, error) {
	var reason domain.StandardReason
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reason)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &reason, nil
}

// GetByCode retrieves a standard reason by its unique code.
func (r *mongoReasonRepository) GetByCode(ctx context.Context, code string) (*domain.StandardReason, error) {
	var reason domain.StandardReason
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&reason)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &reason, nil
}

// List retrieves all standard reasons ordered by code.
func (r *mongoReasonRepository) List(ctx context.Context) ([]domain.StandardReason, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reasons := []domain.StandardReason{}
	if err = cursor.All(ctx, &reasons); err != nil {
		return nil, err
	}
	return reasons, nil
}

// Update replaces the mutable fields of a standard reason.
func (r *mongoReasonRepository) Update(ctx context.Context, reason *domain.StandardReason) error {
	reason.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"code":      reason.Code,
		"label":     reason.Label,
		"updatedAt": reason.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": reason.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a standard reason row. Usage checks belong to the service layer.
func (r *mongoReasonRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureReasonIndexes creates necessary indexes for the standard_reasons collection.
func EnsureReasonIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
