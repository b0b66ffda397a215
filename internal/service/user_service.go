package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/identity"
	"alcyxob/coaching-app/internal/notification"
	"alcyxob/coaching-app/internal/policy"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateUserCommand carries the fields of a new user.
type CreateUserCommand struct {
	Email     string
	Role      domain.Role
	FirstName string
	LastName  string
	TrainerID string // Hex id, required when Role is client
}

// UpdateUserCommand is a partial patch; nil fields are left untouched.
// A TrainerID pointing at the empty string clears the assignment.
type UpdateUserCommand struct {
	Email     *string
	FirstName *string
	LastName  *string
	IsActive  *bool
	TrainerID *string
}

// UserListQuery carries caller-supplied list narrowing; the forced
// visibility scope is applied before any of it.
type UserListQuery struct {
	Role     domain.Role
	IsActive *bool
	Page     int
	Limit    int
	SortBy   string
	SortDir  string
}

// UserDeleteResult reports a completed delete. CleanupWarning carries a
// non-fatal identity cleanup failure so callers and tests can see it.
type UserDeleteResult struct {
	CleanupWarning string `json:"cleanupWarning,omitempty"`
}

// UserService manages user profiles and their auth identities.
type UserService interface {
	Create(ctx context.Context, cmd CreateUserCommand, caller domain.Caller) (*UserResponse, error)
	Get(ctx context.Context, id string, caller domain.Caller) (*UserResponse, error)
	List(ctx context.Context, query UserListQuery, caller domain.Caller) (*UserPage, error)
	Update(ctx context.Context, id string, cmd UpdateUserCommand, caller domain.Caller) (*UserResponse, error)
	Delete(ctx context.Context, id string, caller domain.Caller) (*UserDeleteResult, error)
}

type userService struct {
	userRepo   repository.UserRepository
	identities identity.Manager
	mailer     notification.Mailer
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, identities identity.Manager, mailer notification.Mailer) UserService {
	return &userService{
		userRepo:   userRepo,
		identities: identities,
		mailer:     mailer,
	}
}

// Create provisions an auth identity and the matching profile row. The two
// writes are not transactional: a failed profile insert deletes the identity
// again before the error is raised.
func (s *userService) Create(ctx context.Context, cmd CreateUserCommand, caller domain.Caller) (*UserResponse, error) {
	if !policy.CanManageUsers(caller) {
		return nil, &ForbiddenError{Message: "only administrators can create users"}
	}

	if !cmd.Role.IsValid() {
		return nil, &ValidationError{Field: "role", Message: "must be admin, trainer or client"}
	}
	email, err := normalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	var trainerID *primitive.ObjectID
	switch {
	case cmd.Role == domain.RoleClient:
		if cmd.TrainerID == "" {
			return nil, &ValidationError{Field: "trainerId", Message: "required for clients"}
		}
		id, err := parseID(cmd.TrainerID, "trainerId")
		if err != nil {
			return nil, err
		}
		if err := s.assertTrainer(ctx, id); err != nil {
			return nil, err
		}
		trainerID = &id
	case cmd.TrainerID != "":
		return nil, &ValidationError{Field: "trainerId", Message: "only clients can have a trainer"}
	}

	// Uniqueness check up front; the unique index still backstops races.
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, &ConflictError{Message: "user with this email already exists"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, &DatabaseError{Op: "user email lookup", Err: err}
	}

	identityID, _, err := s.identities.Create(ctx, email, identity.Metadata{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Role:      string(cmd.Role),
	})
	if err != nil {
		if errors.Is(err, identity.ErrIdentityExists) {
			return nil, &ConflictError{Message: "user with this email already exists"}
		}
		return nil, &DatabaseError{Op: "identity create", Err: err}
	}

	user := &domain.User{
		ID:        identityID,
		Email:     email,
		Role:      cmd.Role,
		IsActive:  true,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		TrainerID: trainerID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Best-effort rollback of the first step before surfacing the error.
		_, dbErr := compensate("user profile insert", err, func() error {
			return s.identities.Delete(ctx, identityID)
		})
		return nil, dbErr
	}

	// Fire-and-forget: activation mail failure never fails the create.
	token := uuid.NewString()
	if err := s.mailer.SendActivation(ctx, user.Email, user.DisplayName(), token); err != nil {
		slog.Warn("activation mail failed", "userId", user.ID.Hex(), "error", err)
	}

	return MapUserToResponse(user), nil
}

// Get retrieves one user. Absence and lack of visibility are indistinguishable.
func (s *userService) Get(ctx context.Context, id string, caller domain.Caller) (*UserResponse, error) {
	targetID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, &DatabaseError{Op: "user lookup", Err: err}
	}

	callerProfile, err := s.callerProfileIfClient(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadUser(caller, target, callerProfile) {
		return nil, &NotFoundError{Resource: "user"}
	}

	return MapUserToResponse(target), nil
}

// List returns a page of user summaries within the caller's forced scope.
func (s *userService) List(ctx context.Context, query UserListQuery, caller domain.Caller) (*UserPage, error) {
	callerProfile, err := s.callerProfileIfClient(ctx, caller)
	if err != nil {
		return nil, err
	}

	filter := policy.UserListScope(caller, callerProfile)
	filter.Role = query.Role
	filter.IsActive = query.IsActive
	filter.Page = repository.Page{
		Page:    query.Page,
		Limit:   query.Limit,
		SortBy:  query.SortBy,
		SortDir: query.SortDir,
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, &DatabaseError{Op: "user list", Err: err}
	}

	items := make([]UserSummary, len(users))
	for i := range users {
		items[i] = MapUserToSummary(&users[i])
	}
	return &UserPage{
		Items: items,
		Total: total,
		Page:  maxInt(query.Page, 1),
		Limit: filter.Page.Size(),
	}, nil
}

// Update applies a partial patch to a user profile under the role matrix:
// clients may only touch their own basic fields, trainers additionally those
// of their own clients, and only admins may change status or the trainer
// assignment.
func (s *userService) Update(ctx context.Context, id string, cmd UpdateUserCommand, caller domain.Caller) (*UserResponse, error) {
	targetID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, &DatabaseError{Op: "user lookup", Err: err}
	}

	if !policy.CanUpdateUser(caller, target) {
		return nil, &ForbiddenError{Message: "cannot update this user"}
	}
	if (cmd.IsActive != nil || cmd.TrainerID != nil) && !policy.CanSetUserStatusOrTrainer(caller) {
		return nil, &ForbiddenError{Message: "cannot change status or trainer assignment"}
	}

	if cmd.Email != nil {
		email, err := normalizeEmail(*cmd.Email)
		if err != nil {
			return nil, err
		}
		if email != target.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err == nil && existing.ID != target.ID {
				return nil, &ConflictError{Message: "user with this email already exists"}
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, &DatabaseError{Op: "user email lookup", Err: err}
			}
		}
		target.Email = email
	}
	if cmd.FirstName != nil {
		target.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		target.LastName = *cmd.LastName
	}
	if cmd.IsActive != nil {
		target.IsActive = *cmd.IsActive
	}
	if cmd.TrainerID != nil {
		if *cmd.TrainerID == "" {
			target.TrainerID = nil
		} else {
			if !target.IsClient() {
				return nil, &ValidationError{Field: "trainerId", Message: "only clients can have a trainer"}
			}
			trainerID, err := parseID(*cmd.TrainerID, "trainerId")
			if err != nil {
				return nil, err
			}
			if err := s.assertTrainer(ctx, trainerID); err != nil {
				return nil, err
			}
			target.TrainerID = &trainerID
		}
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, &ConflictError{Message: "user with this email already exists"}
		}
		return nil, &DatabaseError{Op: "user update", Err: err}
	}
	return MapUserToResponse(target), nil
}

// Delete hard-deletes a user: profile row first, then the identity as
// best-effort cleanup whose failure only produces a warning. This mirrors the
// create path in reverse; destructive cleanup failures are non-fatal.
func (s *userService) Delete(ctx context.Context, id string, caller domain.Caller) (*UserDeleteResult, error) {
	if !policy.CanManageUsers(caller) {
		return nil, &ForbiddenError{Message: "only administrators can delete users"}
	}
	targetID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, &DatabaseError{Op: "user delete", Err: err}
	}

	result := &UserDeleteResult{}
	if err := s.identities.Delete(ctx, targetID); err != nil {
		slog.Warn("identity cleanup failed after user delete", "userId", targetID.Hex(), "error", err)
		result.CleanupWarning = err.Error()
	}
	return result, nil
}

// --- helpers ---

// callerProfileIfClient fetches the caller's own profile row for client
// callers; their trainer visibility hangs off it.
func (s *userService) callerProfileIfClient(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	if !caller.IsClient() {
		return nil, nil
	}
	profile, err := s.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &UnauthorizedError{Message: "caller profile not found"}
		}
		return nil, &DatabaseError{Op: "caller profile lookup", Err: err}
	}
	return profile, nil
}

// assertTrainer checks a trainer reference points at an existing trainer.
func (s *userService) assertTrainer(ctx context.Context, id primitive.ObjectID) error {
	trainer, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ValidationError{Field: "trainerId", Message: "must reference an existing trainer"}
		}
		return &DatabaseError{Op: "trainer lookup", Err: err}
	}
	if !trainer.IsTrainer() {
		return &ValidationError{Field: "trainerId", Message: "must reference an existing trainer"}
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", &ValidationError{Field: "email", Message: "malformed email address"}
	}
	return email, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
