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

const planExerciseCollectionName = "plan_exercises"

// mongoPlanExerciseRepository implements repository.PlanExerciseRepository using MongoDB.
type mongoPlanExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanExerciseRepository creates a new plan exercise repository.
func NewMongoPlanExerciseRepository(db *mongo.Database) repository.PlanExerciseRepository {
	return &mongoPlanExerciseRepository{
		collection: db.Collection(planExerciseCollectionName),
	}
}

// CreateMany inserts a batch of plan exercise rows in one call.
func (r *mongoPlanExerciseRepository) CreateMany(ctx context.Context, rows []domain.PlanExercise) error {
	if len(rows) == 0 {
		return errors.New("no plan exercise rows to insert")
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(rows))
	for i := range rows {
		rows[i].ID = primitive.NewObjectID()
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
		docs[i] = rows[i]
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single plan exercise row.
func (r *mongoPlanExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanExercise, error) {
	var row domain.PlanExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// GetByPlanID returns the rows of one plan sorted by sortOrder ascending.
func (r *mongoPlanExerciseRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []domain.PlanExercise{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByPlanIDs returns the rows of all given plans in one query, sorted by
// sortOrder. Callers group the result by PlanID.
func (r *mongoPlanExerciseRepository) GetByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.PlanExercise, error) {
	if len(planIDs) == 0 {
		return []domain.PlanExercise{}, nil
	}

	filter := bson.M{"planId": bson.M{"$in": planIDs}}
	findOptions := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []domain.PlanExercise{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByPlanAndExercise retrieves the row linking one exercise to one plan.
func (r *mongoPlanExerciseRepository) GetByPlanAndExercise(ctx context.Context, planID, exerciseID primitive.ObjectID) (*domain.PlanExercise, error) {
	var row domain.PlanExercise
	filter := bson.M{"planId": planID, "exerciseId": exerciseID}
	err := r.collection.FindOne(ctx, filter).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Update replaces the mutable fields of a plan exercise row.
func (r *mongoPlanExerciseRepository) Update(ctx context.Context, row *domain.PlanExercise) error {
	row.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"sortOrder":     row.SortOrder,
		"sets":          row.Sets,
		"reps":          row.Reps,
		"tempo":         row.Tempo,
		"defaultWeight": row.DefaultWeight,
		"isCompleted":   row.IsCompleted,
		"reasonId":      row.ReasonID,
		"customReason":  row.CustomReason,
		"updatedAt":     row.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": row.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single plan exercise row.
func (r *mongoPlanExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPlanID removes all rows of a plan. Deleting zero rows is not an
// error; full-replace updates call this on plans that may have none left.
func (r *mongoPlanExerciseRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// CountByPlanID counts the rows of one plan.
func (r *mongoPlanExerciseRepository) CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"planId": planID})
}

// CountByExerciseID counts rows referencing an exercise, used to guard hard deletes.
func (r *mongoPlanExerciseRepository) CountByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"exerciseId": exerciseID})
}

// CountByReasonID counts rows referencing a standard reason, used to guard reason deletes.
func (r *mongoPlanExerciseRepository) CountByReasonID(ctx context.Context, reasonID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"reasonId": reasonID})
}

// EnsurePlanExerciseIndexes creates necessary indexes for the plan_exercises collection.
func EnsurePlanExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "planId", Value: 1}, {Key: "sortOrder", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "exerciseId", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "reasonId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
