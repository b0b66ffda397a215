package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPlanExerciseServiceForTest() (PlanExerciseService, *MockPlanRepository, *MockPlanExerciseRepository, *MockExerciseRepository, *MockReasonRepository) {
	planRepo := new(MockPlanRepository)
	planExerRepo := new(MockPlanExerciseRepository)
	exerciseRepo := new(MockExerciseRepository)
	reasonRepo := new(MockReasonRepository)
	return NewPlanExerciseService(planRepo, planExerRepo, exerciseRepo, reasonRepo), planRepo, planExerRepo, exerciseRepo, reasonRepo
}

func TestPlanExerciseAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate membership conflicts", func(t *testing.T) {
		svc, planRepo, planExerRepo, exerciseRepo, _ := newPlanExerciseServiceForTest()
		caller := trainerCaller()
		exID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", TrainerID: &caller.ID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		exerciseRepo.On("GetByID", ctx, exID).Return(&domain.Exercise{ID: exID, Name: "Squat"}, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).
			Return(&domain.PlanExercise{PlanID: plan.ID, ExerciseID: exID}, nil)

		_, err := svc.Add(ctx, plan.ID.Hex(), AddPlanExerciseCommand{ExerciseID: exID.Hex()}, caller)
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("unknown exercise is not found", func(t *testing.T) {
		svc, planRepo, _, exerciseRepo, _ := newPlanExerciseServiceForTest()
		caller := trainerCaller()
		exID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", TrainerID: &caller.ID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		exerciseRepo.On("GetByID", ctx, exID).Return(nil, repository.ErrNotFound)

		_, err := svc.Add(ctx, plan.ID.Hex(), AddPlanExerciseCommand{ExerciseID: exID.Hex()}, caller)
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "exercise", notFound.Resource)
	})

	t.Run("happy path inserts one row", func(t *testing.T) {
		svc, planRepo, planExerRepo, exerciseRepo, _ := newPlanExerciseServiceForTest()
		caller := trainerCaller()
		exID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", TrainerID: &caller.ID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		exerciseRepo.On("GetByID", ctx, exID).Return(&domain.Exercise{ID: exID, Name: "Squat"}, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).Return(nil, repository.ErrNotFound)
		planExerRepo.On("CreateMany", ctx, mock.MatchedBy(func(rows []domain.PlanExercise) bool {
			return len(rows) == 1 && rows[0].ExerciseID == exID && rows[0].Sets == 5
		})).Return(nil)

		resp, err := svc.Add(ctx, plan.ID.Hex(), AddPlanExerciseCommand{ExerciseID: exID.Hex(), SortOrder: 3, Sets: 5, Reps: 5}, caller)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.SortOrder)
	})
}

func TestPlanExerciseRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removing the last entry flags the plan as empty", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, _ := newPlanExerciseServiceForTest()
		caller := trainerCaller()
		exID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", TrainerID: &caller.ID}
		row := &domain.PlanExercise{ID: primitive.NewObjectID(), PlanID: plan.ID, ExerciseID: exID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).Return(row, nil)
		planExerRepo.On("Delete", ctx, row.ID).Return(nil)
		planExerRepo.On("CountByPlanID", ctx, plan.ID).Return(int64(0), nil)

		result, err := svc.Remove(ctx, plan.ID.Hex(), exID.Hex(), caller)
		require.NoError(t, err)
		assert.True(t, result.PlanNowEmpty)
	})

	t.Run("remaining entries leave the flag unset", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, _ := newPlanExerciseServiceForTest()
		caller := trainerCaller()
		exID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", TrainerID: &caller.ID}
		row := &domain.PlanExercise{ID: primitive.NewObjectID(), PlanID: plan.ID, ExerciseID: exID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).Return(row, nil)
		planExerRepo.On("Delete", ctx, row.ID).Return(nil)
		planExerRepo.On("CountByPlanID", ctx, plan.ID).Return(int64(2), nil)

		result, err := svc.Remove(ctx, plan.ID.Hex(), exID.Hex(), caller)
		require.NoError(t, err)
		assert.False(t, result.PlanNowEmpty)
	})
}

func TestMarkCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("trainers are always refused, even for their own plans", func(t *testing.T) {
		svc, planRepo, _, _, _ := newPlanExerciseServiceForTest()
		caller := trainerCaller()

		_, err := svc.MarkCompletion(ctx, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), CompletionCommand{Completed: true}, caller)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		// Refused before the plan is even fetched.
		planRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("another client's plan reads as not found", func(t *testing.T) {
		svc, planRepo, _, _, _ := newPlanExerciseServiceForTest()
		owner := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", ClientID: &owner}
		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)

		_, err := svc.MarkCompletion(ctx, plan.ID.Hex(), primitive.NewObjectID().Hex(), CompletionCommand{Completed: true}, clientCaller())
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("not completed without any reason is rejected", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, _ := newPlanExerciseServiceForTest()
		caller := clientCaller()
		exID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", ClientID: &caller.ID}
		row := &domain.PlanExercise{ID: primitive.NewObjectID(), PlanID: plan.ID, ExerciseID: exID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).Return(row, nil)

		_, err := svc.MarkCompletion(ctx, plan.ID.Hex(), exID.Hex(), CompletionCommand{Completed: false}, caller)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "reason", validation.Field)
	})

	t.Run("unknown standard reason is not found", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, reasonRepo := newPlanExerciseServiceForTest()
		caller := clientCaller()
		exID := primitive.NewObjectID()
		reasonID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", ClientID: &caller.ID}
		row := &domain.PlanExercise{ID: primitive.NewObjectID(), PlanID: plan.ID, ExerciseID: exID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).Return(row, nil)
		reasonRepo.On("GetByID", ctx, reasonID).Return(nil, repository.ErrNotFound)

		_, err := svc.MarkCompletion(ctx, plan.ID.Hex(), exID.Hex(), CompletionCommand{Completed: false, ReasonID: reasonID.Hex()}, caller)
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "standard reason", notFound.Resource)
	})

	t.Run("custom reason replaces a previously recorded standard reason", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, _ := newPlanExerciseServiceForTest()
		caller := clientCaller()
		exID := primitive.NewObjectID()
		oldReason := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", ClientID: &caller.ID}
		row := &domain.PlanExercise{ID: primitive.NewObjectID(), PlanID: plan.ID, ExerciseID: exID, ReasonID: &oldReason}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).Return(row, nil)
		planExerRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.PlanExercise) bool {
			return r.ReasonID == nil && r.CustomReason == "Too tired" && !r.IsCompleted
		})).Return(nil)

		resp, err := svc.MarkCompletion(ctx, plan.ID.Hex(), exID.Hex(), CompletionCommand{Completed: false, CustomReason: "Too tired"}, caller)
		require.NoError(t, err)
		assert.Equal(t, "Too tired", resp.CustomReason)
		assert.Nil(t, resp.ReasonID)
	})

	t.Run("completing an exercise wipes the recorded reason", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, _ := newPlanExerciseServiceForTest()
		caller := clientCaller()
		exID := primitive.NewObjectID()
		oldReason := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", ClientID: &caller.ID}
		row := &domain.PlanExercise{ID: primitive.NewObjectID(), PlanID: plan.ID, ExerciseID: exID, ReasonID: &oldReason, CustomReason: "Sore"}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanAndExercise", ctx, plan.ID, exID).Return(row, nil)
		planExerRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.PlanExercise) bool {
			return r.IsCompleted && r.ReasonID == nil && r.CustomReason == ""
		})).Return(nil)

		resp, err := svc.MarkCompletion(ctx, plan.ID.Hex(), exID.Hex(), CompletionCommand{Completed: true}, caller)
		require.NoError(t, err)
		assert.True(t, resp.IsCompleted)
	})
}

func TestGetCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("records come back per entry in sort order", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, _ := newPlanExerciseServiceForTest()
		caller := clientCaller()
		exA, exB := primitive.NewObjectID(), primitive.NewObjectID()
		reasonID := primitive.NewObjectID()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", ClientID: &caller.ID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanID", ctx, plan.ID).Return([]domain.PlanExercise{
			{PlanID: plan.ID, ExerciseID: exA, SortOrder: 1, IsCompleted: true},
			{PlanID: plan.ID, ExerciseID: exB, SortOrder: 2, ReasonID: &reasonID},
		}, nil)

		records, err := svc.GetCompletion(ctx, plan.ID.Hex(), caller)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.True(t, records[0].IsCompleted)
		require.NotNil(t, records[1].ReasonID)
		assert.Equal(t, reasonID.Hex(), *records[1].ReasonID)
	})

	t.Run("the owning trainer may read completion state", func(t *testing.T) {
		svc, planRepo, planExerRepo, _, _ := newPlanExerciseServiceForTest()
		caller := trainerCaller()
		plan := &domain.Plan{ID: primitive.NewObjectID(), Name: "Base", TrainerID: &caller.ID}

		planRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)
		planExerRepo.On("GetByPlanID", ctx, plan.ID).Return([]domain.PlanExercise{}, nil)

		_, err := svc.GetCompletion(ctx, plan.ID.Hex(), caller)
		assert.NoError(t, err)
	})
}
