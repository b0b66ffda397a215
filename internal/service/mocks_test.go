package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/identity"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hand-written mocks for the repository and gateway interfaces.

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExerciseRepository is a mock implementation of repository.ExerciseRepository.
type MockExerciseRepository struct {
	mock.Mock
}

func (m *MockExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	args := m.Called(ctx, exercise)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Exercise), args.Get(1).(int64), args.Error(2)
}

func (m *MockExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	args := m.Called(ctx, exercise)
	return args.Error(0)
}

func (m *MockExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPlanRepository is a mock implementation of repository.PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	args := m.Called(ctx, plan)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *MockPlanRepository) List(ctx context.Context, filter repository.PlanFilter) ([]domain.Plan, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Plan), args.Get(1).(int64), args.Error(2)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPlanExerciseRepository is a mock implementation of repository.PlanExerciseRepository.
type MockPlanExerciseRepository struct {
	mock.Mock
}

func (m *MockPlanExerciseRepository) CreateMany(ctx context.Context, rows []domain.PlanExercise) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockPlanExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanExercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanExercise), args.Error(1)
}

func (m *MockPlanExerciseRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanExercise, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlanExercise), args.Error(1)
}

func (m *MockPlanExerciseRepository) GetByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.PlanExercise, error) {
	args := m.Called(ctx, planIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlanExercise), args.Error(1)
}

func (m *MockPlanExerciseRepository) GetByPlanAndExercise(ctx context.Context, planID, exerciseID primitive.ObjectID) (*domain.PlanExercise, error) {
	args := m.Called(ctx, planID, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanExercise), args.Error(1)
}

func (m *MockPlanExerciseRepository) Update(ctx context.Context, row *domain.PlanExercise) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockPlanExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanExerciseRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

func (m *MockPlanExerciseRepository) CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanExerciseRepository) CountByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, exerciseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanExerciseRepository) CountByReasonID(ctx context.Context, reasonID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, reasonID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReasonRepository is a mock implementation of repository.ReasonRepository.
type MockReasonRepository struct {
	mock.Mock
}

func (m *MockReasonRepository) Create(ctx context.Context, reason *domain.StandardReason) (primitive.ObjectID, error) {
	args := m.Called(ctx, reason)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockReasonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StandardReason, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StandardReason), args.Error(1)
}

func (m *MockReasonRepository) GetByCode(ctx context.Context, code string) (*domain.StandardReason, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StandardReason), args.Error(1)
}

func (m *MockReasonRepository) List(ctx context.Context) ([]domain.StandardReason, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StandardReason), args.Error(1)
}

func (m *MockReasonRepository) Update(ctx context.Context, reason *domain.StandardReason) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}

func (m *MockReasonRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIdentityManager is a mock implementation of identity.Manager.
type MockIdentityManager struct {
	mock.Mock
}

func (m *MockIdentityManager) Create(ctx context.Context, email string, meta identity.Metadata) (primitive.ObjectID, string, error) {
	args := m.Called(ctx, email, meta)
	return args.Get(0).(primitive.ObjectID), args.String(1), args.Error(2)
}

func (m *MockIdentityManager) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIdentityManager) Verify(ctx context.Context, email, password string) (primitive.ObjectID, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockIdentityManager) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	args := m.Called(ctx, id, password)
	return args.Error(0)
}

// MockMailer is a mock implementation of notification.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendActivation(ctx context.Context, email, name, token string) error {
	args := m.Called(ctx, email, name, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	args := m.Called(ctx, email, name, token)
	return args.Error(0)
}

// MockVideoStorage is a mock implementation of storage.VideoStorage.
type MockVideoStorage struct {
	mock.Mock
}

func (m *MockVideoStorage) PresignUpload(ctx context.Context, token, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, token, contentType, expires)
	return args.String(0), args.Error(1)
}

func (m *MockVideoStorage) PresignDownload(ctx context.Context, token string, expires time.Duration) (string, error) {
	args := m.Called(ctx, token, expires)
	return args.String(0), args.Error(1)
}

func (m *MockVideoStorage) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
