package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/policy"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"regexp"
)

// Reason codes are machine-readable handles: lowercase with underscores.
var reasonCodePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// CreateReasonCommand carries the fields of a new standard reason.
type CreateReasonCommand struct {
	Code  string
	Label string
}

// UpdateReasonCommand is a partial patch; nil fields are left untouched.
type UpdateReasonCommand struct {
	Code  *string
	Label *string
}

// ReasonService manages the catalog of standard non-completion reasons.
// Writes are admin-only; every authenticated caller may read the list, since
// clients pick from it when marking an exercise not completed.
type ReasonService interface {
	Create(ctx context.Context, cmd CreateReasonCommand, caller domain.Caller) (*ReasonResponse, error)
	Get(ctx context.Context, id string, caller domain.Caller) (*ReasonResponse, error)
	List(ctx context.Context, caller domain.Caller) ([]ReasonResponse, error)
	Update(ctx context.Context, id string, cmd UpdateReasonCommand, caller domain.Caller) (*ReasonResponse, error)
	Delete(ctx context.Context, id string, caller domain.Caller) error
}

type reasonService struct {
	reasonRepo   repository.ReasonRepository
	planExerRepo repository.PlanExerciseRepository
}

// NewReasonService creates a new instance of reasonService.
func NewReasonService(reasonRepo repository.ReasonRepository, planExerRepo repository.PlanExerciseRepository) ReasonService {
	return &reasonService{
		reasonRepo:   reasonRepo,
		planExerRepo: planExerRepo,
	}
}

// Create adds a new standard reason.
func (s *reasonService) Create(ctx context.Context, cmd CreateReasonCommand, caller domain.Caller) (*ReasonResponse, error) {
	if !policy.CanManageCatalog(caller) {
		return nil, &ForbiddenError{Message: "only administrators can manage standard reasons"}
	}
	if err := validateReasonCode(cmd.Code); err != nil {
		return nil, err
	}
	if cmd.Label == "" {
		return nil, &ValidationError{Field: "label", Message: "required"}
	}

	if err := s.assertCodeFree(ctx, cmd.Code); err != nil {
		return nil, err
	}

	reason := &domain.StandardReason{Code: cmd.Code, Label: cmd.Label}
	if _, err := s.reasonRepo.Create(ctx, reason); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, &ConflictError{Message: "reason with this code already exists"}
		}
		return nil, &DatabaseError{Op: "reason insert", Err: err}
	}
	return MapReasonToResponse(reason), nil
}

// Get retrieves one standard reason.
func (s *reasonService) Get(ctx context.Context, id string, caller domain.Caller) (*ReasonResponse, error) {
	reason, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return MapReasonToResponse(reason), nil
}

// List retrieves all standard reasons ordered by code.
func (s *reasonService) List(ctx context.Context, caller domain.Caller) ([]ReasonResponse, error) {
	reasons, err := s.reasonRepo.List(ctx)
	if err != nil {
		return nil, &DatabaseError{Op: "reason list", Err: err}
	}

	items := make([]ReasonResponse, len(reasons))
	for i := range reasons {
		items[i] = *MapReasonToResponse(&reasons[i])
	}
	return items, nil
}

// Update applies a partial patch; a code change revalidates uniqueness.
func (s *reasonService) Update(ctx context.Context, id string, cmd UpdateReasonCommand, caller domain.Caller) (*ReasonResponse, error) {
	if !policy.CanManageCatalog(caller) {
		return nil, &ForbiddenError{Message: "only administrators can manage standard reasons"}
	}
	reason, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Code != nil && *cmd.Code != reason.Code {
		if err := validateReasonCode(*cmd.Code); err != nil {
			return nil, err
		}
		if err := s.assertCodeFree(ctx, *cmd.Code); err != nil {
			return nil, err
		}
		reason.Code = *cmd.Code
	}
	if cmd.Label != nil {
		if *cmd.Label == "" {
			return nil, &ValidationError{Field: "label", Message: "required"}
		}
		reason.Label = *cmd.Label
	}

	if err := s.reasonRepo.Update(ctx, reason); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, &ConflictError{Message: "reason with this code already exists"}
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "standard reason"}
		}
		return nil, &DatabaseError{Op: "reason update", Err: err}
	}
	return MapReasonToResponse(reason), nil
}

// Delete removes a standard reason unless any plan exercise still references it.
func (s *reasonService) Delete(ctx context.Context, id string, caller domain.Caller) error {
	if !policy.CanManageCatalog(caller) {
		return &ForbiddenError{Message: "only administrators can manage standard reasons"}
	}
	reason, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.planExerRepo.CountByReasonID(ctx, reason.ID)
	if err != nil {
		return &DatabaseError{Op: "reason usage check", Err: err}
	}
	if inUse > 0 {
		return &ConflictError{Message: "reason is referenced by existing completion records"}
	}

	if err := s.reasonRepo.Delete(ctx, reason.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "standard reason"}
		}
		return &DatabaseError{Op: "reason delete", Err: err}
	}
	return nil
}

// --- helpers ---

func (s *reasonService) lookup(ctx context.Context, id string) (*domain.StandardReason, error) {
	reasonID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	reason, err := s.reasonRepo.GetByID(ctx, reasonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "standard reason"}
		}
		return nil, &DatabaseError{Op: "reason lookup", Err: err}
	}
	return reason, nil
}

func (s *reasonService) assertCodeFree(ctx context.Context, code string) error {
	if _, err := s.reasonRepo.GetByCode(ctx, code); err == nil {
		return &ConflictError{Message: "reason with this code already exists"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return &DatabaseError{Op: "reason code lookup", Err: err}
	}
	return nil
}

func validateReasonCode(code string) error {
	if code == "" || !reasonCodePattern.MatchString(code) {
		return &ValidationError{Field: "code", Message: "must be lowercase letters, digits and underscores"}
	}
	return nil
}
