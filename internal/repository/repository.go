package repository

import (
	"alcyxob/coaching-app/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 100

// Page carries pagination and sorting parameters for list operations.
// Pages are 1-based; the storage offset is (Page-1)*Limit.
type Page struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir string // "asc" or "desc"
}

// Offset returns the storage offset for the page.
func (p Page) Offset() int64 {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * p.Size())
}

// Size returns the effective, capped page size.
func (p Page) Size() int {
	if p.Limit <= 0 {
		return 20
	}
	if p.Limit > MaxPageSize {
		return MaxPageSize
	}
	return p.Limit
}

// UserFilter narrows user list queries. Nil/zero fields are ignored.
type UserFilter struct {
	// IDs, when non-nil, restricts the result to the given ids. An empty
	// non-nil slice matches nothing (used by forced visibility scopes).
	// When both IDs and TrainerID are set the two combine as an OR: a row
	// matches if its id is in IDs or its trainerId equals TrainerID. This is
	// how the "own profile plus own clients" trainer scope is expressed.
	IDs       []primitive.ObjectID
	Role      domain.Role
	TrainerID *primitive.ObjectID
	IsActive  *bool
	Page      Page
}

// UserRepository defines the interface for interacting with user profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseFilter narrows exercise list queries.
type ExerciseFilter struct {
	// IncludeHidden, when false, filters out soft-deleted exercises.
	IncludeHidden bool
	NameContains  string
	Page          Page
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, int64, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanFilter narrows plan list queries. Forced ownership scopes from the
// authorization policy are applied through TrainerID/ClientID.
type PlanFilter struct {
	TrainerID     *primitive.ObjectID
	ClientID      *primitive.ObjectID
	IncludeHidden bool
	Page          Page
}

// PlanRepository defines the interface for interacting with plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	List(ctx context.Context, filter PlanFilter) ([]domain.Plan, int64, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanExerciseRepository defines the interface for exercise rows within plans.
type PlanExerciseRepository interface {
	CreateMany(ctx context.Context, rows []domain.PlanExercise) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanExercise, error)
	// GetByPlanID returns the rows of one plan sorted by sortOrder ascending.
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanExercise, error)
	// GetByPlanIDs is the batched variant used to enrich plan list pages.
	GetByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.PlanExercise, error)
	GetByPlanAndExercise(ctx context.Context, planID, exerciseID primitive.ObjectID) (*domain.PlanExercise, error)
	Update(ctx context.Context, row *domain.PlanExercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error
	CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
	CountByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (int64, error)
	CountByReasonID(ctx context.Context, reasonID primitive.ObjectID) (int64, error)
}

// ReasonRepository defines the interface for standard non-completion reasons.
type ReasonRepository interface {
	Create(ctx context.Context, reason *domain.StandardReason) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StandardReason, error)
	GetByCode(ctx context.Context, code string) (*domain.StandardReason, error)
	List(ctx context.Context) ([]domain.StandardReason, error)
	Update(ctx context.Context, reason *domain.StandardReason) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
