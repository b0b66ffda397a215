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

func newReasonServiceForTest() (ReasonService, *MockReasonRepository, *MockPlanExerciseRepository) {
	reasonRepo := new(MockReasonRepository)
	planExerRepo := new(MockPlanExerciseRepository)
	return NewReasonService(reasonRepo, planExerRepo), reasonRepo, planExerRepo
}

func TestReasonCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("only admins manage reasons", func(t *testing.T) {
		svc, _, _ := newReasonServiceForTest()
		_, err := svc.Create(ctx, CreateReasonCommand{Code: "too_tired", Label: "Too tired"}, clientCaller())
		var forbidden *ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})

	t.Run("code format is enforced", func(t *testing.T) {
		svc, _, _ := newReasonServiceForTest()
		for _, code := range []string{"", "Too Tired", "too-tired", "TIRED"} {
			_, err := svc.Create(ctx, CreateReasonCommand{Code: code, Label: "Too tired"}, adminCaller())
			var validation *ValidationError
			require.ErrorAs(t, err, &validation, "code %q", code)
			assert.Equal(t, "code", validation.Field)
		}
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		svc, reasonRepo, _ := newReasonServiceForTest()
		reasonRepo.On("GetByCode", ctx, "too_tired").
			Return(&domain.StandardReason{ID: primitive.NewObjectID(), Code: "too_tired"}, nil)

		_, err := svc.Create(ctx, CreateReasonCommand{Code: "too_tired", Label: "Too tired"}, adminCaller())
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("happy path", func(t *testing.T) {
		svc, reasonRepo, _ := newReasonServiceForTest()
		reasonRepo.On("GetByCode", ctx, "no_equipment").Return(nil, repository.ErrNotFound)
		reasonRepo.On("Create", ctx, mock.Anything).Return(primitive.NewObjectID(), nil)

		resp, err := svc.Create(ctx, CreateReasonCommand{Code: "no_equipment", Label: "No equipment available"}, adminCaller())
		require.NoError(t, err)
		assert.Equal(t, "no_equipment", resp.Code)
	})
}

func TestReasonList(t *testing.T) {
	ctx := context.Background()

	// Any authenticated caller can browse the list; clients pick from it.
	svc, reasonRepo, _ := newReasonServiceForTest()
	reasonRepo.On("List", ctx).Return([]domain.StandardReason{
		{ID: primitive.NewObjectID(), Code: "no_equipment", Label: "No equipment"},
		{ID: primitive.NewObjectID(), Code: "too_tired", Label: "Too tired"},
	}, nil)

	items, err := svc.List(ctx, clientCaller())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestReasonUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("code change revalidates uniqueness", func(t *testing.T) {
		svc, reasonRepo, _ := newReasonServiceForTest()
		reason := &domain.StandardReason{ID: primitive.NewObjectID(), Code: "too_tired", Label: "Too tired"}
		other := &domain.StandardReason{ID: primitive.NewObjectID(), Code: "sick", Label: "Sick"}
		reasonRepo.On("GetByID", ctx, reason.ID).Return(reason, nil)
		reasonRepo.On("GetByCode", ctx, "sick").Return(other, nil)

		code := "sick"
		_, err := svc.Update(ctx, reason.ID.Hex(), UpdateReasonCommand{Code: &code}, adminCaller())
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("label only patch leaves the code alone", func(t *testing.T) {
		svc, reasonRepo, _ := newReasonServiceForTest()
		reason := &domain.StandardReason{ID: primitive.NewObjectID(), Code: "too_tired", Label: "Too tired"}
		reasonRepo.On("GetByID", ctx, reason.ID).Return(reason, nil)
		reasonRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.StandardReason) bool {
			return r.Code == "too_tired" && r.Label == "Exhausted"
		})).Return(nil)

		label := "Exhausted"
		resp, err := svc.Update(ctx, reason.ID.Hex(), UpdateReasonCommand{Label: &label}, adminCaller())
		require.NoError(t, err)
		assert.Equal(t, "Exhausted", resp.Label)
	})
}

func TestReasonDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while completion records reference it", func(t *testing.T) {
		svc, reasonRepo, planExerRepo := newReasonServiceForTest()
		reason := &domain.StandardReason{ID: primitive.NewObjectID(), Code: "too_tired", Label: "Too tired"}
		reasonRepo.On("GetByID", ctx, reason.ID).Return(reason, nil)
		planExerRepo.On("CountByReasonID", ctx, reason.ID).Return(int64(1), nil)

		err := svc.Delete(ctx, reason.ID.Hex(), adminCaller())
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		reasonRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unreferenced reason deletes cleanly", func(t *testing.T) {
		svc, reasonRepo, planExerRepo := newReasonServiceForTest()
		reason := &domain.StandardReason{ID: primitive.NewObjectID(), Code: "too_tired", Label: "Too tired"}
		reasonRepo.On("GetByID", ctx, reason.ID).Return(reason, nil)
		planExerRepo.On("CountByReasonID", ctx, reason.ID).Return(int64(0), nil)
		reasonRepo.On("Delete", ctx, reason.ID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, reason.ID.Hex(), adminCaller()))
	})
}
