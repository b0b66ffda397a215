package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/identity"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUserServiceForTest() (UserService, *MockUserRepository, *MockIdentityManager, *MockMailer) {
	userRepo := new(MockUserRepository)
	identities := new(MockIdentityManager)
	mailer := new(MockMailer)
	return NewUserService(userRepo, identities, mailer), userRepo, identities, mailer
}

func adminCaller() domain.Caller {
	return domain.Caller{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
}

func trainerCaller() domain.Caller {
	return domain.Caller{ID: primitive.NewObjectID(), Role: domain.RoleTrainer}
}

func clientCaller() domain.Caller {
	return domain.Caller{ID: primitive.NewObjectID(), Role: domain.RoleClient}
}

func TestUserCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin is rejected", func(t *testing.T) {
		svc, _, _, _ := newUserServiceForTest()
		_, err := svc.Create(ctx, CreateUserCommand{Email: "a@b.com", Role: domain.RoleClient}, trainerCaller())
		var forbidden *ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})

	t.Run("client without trainer is rejected", func(t *testing.T) {
		svc, _, _, _ := newUserServiceForTest()
		_, err := svc.Create(ctx, CreateUserCommand{Email: "a@b.com", Role: domain.RoleClient}, adminCaller())
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "trainerId", validation.Field)
	})

	t.Run("email uniqueness is case-insensitive", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		existing := &domain.User{ID: primitive.NewObjectID(), Email: "jane@example.com", Role: domain.RoleTrainer}
		userRepo.On("GetByEmail", ctx, "jane@example.com").Return(existing, nil)

		_, err := svc.Create(ctx, CreateUserCommand{Email: "Jane@Example.COM", Role: domain.RoleTrainer}, adminCaller())
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("happy path provisions identity then profile", func(t *testing.T) {
		svc, userRepo, identities, mailer := newUserServiceForTest()
		identityID := primitive.NewObjectID()

		userRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, repository.ErrNotFound)
		identities.On("Create", ctx, "jane@example.com", mock.Anything).Return(identityID, "secret", nil)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.ID == identityID && u.IsActive && u.Role == domain.RoleTrainer
		})).Return(nil)
		mailer.On("SendActivation", ctx, "jane@example.com", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, CreateUserCommand{Email: "jane@example.com", Role: domain.RoleTrainer, FirstName: "Jane"}, adminCaller())
		require.NoError(t, err)
		assert.Equal(t, identityID.Hex(), resp.ID)
		userRepo.AssertExpectations(t)
		identities.AssertExpectations(t)
	})

	t.Run("failed profile insert deletes the identity again", func(t *testing.T) {
		svc, userRepo, identities, _ := newUserServiceForTest()
		identityID := primitive.NewObjectID()

		userRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, repository.ErrNotFound)
		identities.On("Create", ctx, "jane@example.com", mock.Anything).Return(identityID, "secret", nil)
		userRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
		identities.On("Delete", ctx, identityID).Return(nil)

		_, err := svc.Create(ctx, CreateUserCommand{Email: "jane@example.com", Role: domain.RoleTrainer}, adminCaller())
		var dbErr *DatabaseError
		require.ErrorAs(t, err, &dbErr)
		identities.AssertCalled(t, "Delete", ctx, identityID)
	})

	t.Run("activation mail failure does not fail the create", func(t *testing.T) {
		svc, userRepo, identities, mailer := newUserServiceForTest()
		identityID := primitive.NewObjectID()

		userRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, repository.ErrNotFound)
		identities.On("Create", ctx, "jane@example.com", mock.Anything).Return(identityID, "secret", nil)
		userRepo.On("Create", ctx, mock.Anything).Return(nil)
		mailer.On("SendActivation", ctx, "jane@example.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		resp, err := svc.Create(ctx, CreateUserCommand{Email: "jane@example.com", Role: domain.RoleTrainer}, adminCaller())
		require.NoError(t, err)
		assert.NotNil(t, resp)
	})

	t.Run("duplicate identity maps to conflict", func(t *testing.T) {
		svc, userRepo, identities, _ := newUserServiceForTest()

		userRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, repository.ErrNotFound)
		identities.On("Create", ctx, "jane@example.com", mock.Anything).Return(primitive.NilObjectID, "", identity.ErrIdentityExists)

		_, err := svc.Create(ctx, CreateUserCommand{Email: "jane@example.com", Role: domain.RoleTrainer}, adminCaller())
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestUserGet(t *testing.T) {
	ctx := context.Background()

	t.Run("invisible user reads as not found", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		caller := trainerCaller()
		stranger := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient}
		userRepo.On("GetByID", ctx, stranger.ID).Return(stranger, nil)

		_, err := svc.Get(ctx, stranger.ID.Hex(), caller)
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("client reads own trainer", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		caller := clientCaller()
		trainerID := primitive.NewObjectID()
		target := &domain.User{ID: trainerID, Role: domain.RoleTrainer}
		profile := &domain.User{ID: caller.ID, Role: domain.RoleClient, TrainerID: &trainerID}
		userRepo.On("GetByID", ctx, trainerID).Return(target, nil)
		userRepo.On("GetByID", ctx, caller.ID).Return(profile, nil)

		resp, err := svc.Get(ctx, trainerID.Hex(), caller)
		require.NoError(t, err)
		assert.Equal(t, trainerID.Hex(), resp.ID)
	})

	t.Run("malformed id is a validation error", func(t *testing.T) {
		svc, _, _, _ := newUserServiceForTest()
		_, err := svc.Get(ctx, "not-an-id", adminCaller())
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}

func TestUserList(t *testing.T) {
	ctx := context.Background()

	t.Run("trainer scope is forced regardless of query", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		caller := trainerCaller()

		userRepo.On("List", ctx, mock.MatchedBy(func(f repository.UserFilter) bool {
			return f.TrainerID != nil && *f.TrainerID == caller.ID && len(f.IDs) == 1 && f.IDs[0] == caller.ID
		})).Return([]domain.User{}, int64(0), nil)

		_, err := svc.List(ctx, UserListQuery{}, caller)
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("client scope resolves the trainer from the own profile", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		caller := clientCaller()
		trainerID := primitive.NewObjectID()
		profile := &domain.User{ID: caller.ID, Role: domain.RoleClient, TrainerID: &trainerID}

		userRepo.On("GetByID", ctx, caller.ID).Return(profile, nil)
		userRepo.On("List", ctx, mock.MatchedBy(func(f repository.UserFilter) bool {
			return len(f.IDs) == 2
		})).Return([]domain.User{*profile}, int64(1), nil)

		page, err := svc.List(ctx, UserListQuery{}, caller)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin cannot change status or trainer assignment", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		caller := trainerCaller()
		target := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, TrainerID: &caller.ID}
		userRepo.On("GetByID", ctx, target.ID).Return(target, nil)

		inactive := false
		_, err := svc.Update(ctx, target.ID.Hex(), UpdateUserCommand{IsActive: &inactive}, caller)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Contains(t, forbidden.Message, "status or trainer assignment")
	})

	t.Run("client updates own basic fields", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		caller := clientCaller()
		target := &domain.User{ID: caller.ID, Role: domain.RoleClient, Email: "me@example.com"}
		userRepo.On("GetByID", ctx, caller.ID).Return(target, nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.FirstName == "New"
		})).Return(nil)

		name := "New"
		resp, err := svc.Update(ctx, caller.ID.Hex(), UpdateUserCommand{FirstName: &name}, caller)
		require.NoError(t, err)
		assert.Equal(t, "New", resp.FirstName)
	})

	t.Run("admin clears a trainer assignment with an empty string", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		trainerID := primitive.NewObjectID()
		target := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient, Email: "c@example.com", TrainerID: &trainerID}
		userRepo.On("GetByID", ctx, target.ID).Return(target, nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.TrainerID == nil
		})).Return(nil)

		empty := ""
		resp, err := svc.Update(ctx, target.ID.Hex(), UpdateUserCommand{TrainerID: &empty}, adminCaller())
		require.NoError(t, err)
		assert.Nil(t, resp.TrainerID)
	})

	t.Run("email change to an address held by someone else conflicts", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		target := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleTrainer, Email: "old@example.com"}
		other := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleTrainer, Email: "new@example.com"}
		userRepo.On("GetByID", ctx, target.ID).Return(target, nil)
		userRepo.On("GetByEmail", ctx, "new@example.com").Return(other, nil)

		email := "new@example.com"
		_, err := svc.Update(ctx, target.ID.Hex(), UpdateUserCommand{Email: &email}, adminCaller())
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("only admins delete", func(t *testing.T) {
		svc, _, _, _ := newUserServiceForTest()
		_, err := svc.Delete(ctx, primitive.NewObjectID().Hex(), trainerCaller())
		var forbidden *ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})

	t.Run("identity cleanup failure surfaces as warning, not error", func(t *testing.T) {
		svc, userRepo, identities, _ := newUserServiceForTest()
		targetID := primitive.NewObjectID()
		userRepo.On("Delete", ctx, targetID).Return(nil)
		identities.On("Delete", ctx, targetID).Return(errors.New("identity store down"))

		result, err := svc.Delete(ctx, targetID.Hex(), adminCaller())
		require.NoError(t, err)
		assert.Contains(t, result.CleanupWarning, "identity store down")
	})

	t.Run("missing user is not found", func(t *testing.T) {
		svc, userRepo, _, _ := newUserServiceForTest()
		targetID := primitive.NewObjectID()
		userRepo.On("Delete", ctx, targetID).Return(repository.ErrNotFound)

		_, err := svc.Delete(ctx, targetID.Hex(), adminCaller())
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}
