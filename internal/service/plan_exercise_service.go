package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/policy"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddPlanExerciseCommand adds one exercise entry to an existing plan.
type AddPlanExerciseCommand struct {
	ExerciseID    string
	SortOrder     int
	Sets          int
	Reps          int
	Tempo         string
	DefaultWeight float64
}

// UpdatePlanExerciseCommand is a partial patch of the prescription fields.
type UpdatePlanExerciseCommand struct {
	SortOrder     *int
	Sets          *int
	Reps          *int
	Tempo         *string
	DefaultWeight *float64
}

// CompletionCommand marks one plan exercise done or not done. A not-done mark
// must carry either a standard reason reference or a free-text reason.
type CompletionCommand struct {
	Completed    bool
	ReasonID     string
	CustomReason string
}

// RemovePlanExerciseResult reports a completed removal. PlanNowEmpty is set
// when the plan has no exercise rows left; the plan itself is kept.
type RemovePlanExerciseResult struct {
	PlanNowEmpty bool `json:"planNowEmpty"`
}

// PlanExerciseService manages the exercise rows nested under a plan. Row
// mutation is gated by plan ownership; completion marking deliberately
// excludes trainers.
type PlanExerciseService interface {
	Add(ctx context.Context, planID string, cmd AddPlanExerciseCommand, caller domain.Caller) (*PlanExerciseResponse, error)
	Update(ctx context.Context, planID, exerciseID string, cmd UpdatePlanExerciseCommand, caller domain.Caller) (*PlanExerciseResponse, error)
	Remove(ctx context.Context, planID, exerciseID string, caller domain.Caller) (*RemovePlanExerciseResult, error)
	MarkCompletion(ctx context.Context, planID, exerciseID string, cmd CompletionCommand, caller domain.Caller) (*PlanExerciseResponse, error)
	GetCompletion(ctx context.Context, planID string, caller domain.Caller) ([]CompletionRecord, error)
}

type planExerciseService struct {
	planRepo     repository.PlanRepository
	planExerRepo repository.PlanExerciseRepository
	exerciseRepo repository.ExerciseRepository
	reasonRepo   repository.ReasonRepository
}

// NewPlanExerciseService creates a new instance of planExerciseService.
func NewPlanExerciseService(
	planRepo repository.PlanRepository,
	planExerRepo repository.PlanExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	reasonRepo repository.ReasonRepository,
) PlanExerciseService {
	return &planExerciseService{
		planRepo:     planRepo,
		planExerRepo: planExerRepo,
		exerciseRepo: exerciseRepo,
		reasonRepo:   reasonRepo,
	}
}

// Add appends one exercise entry to a plan. The exercise must exist and must
// not already be present in the plan.
func (s *planExerciseService) Add(ctx context.Context, planID string, cmd AddPlanExerciseCommand, caller domain.Caller) (*PlanExerciseResponse, error) {
	plan, err := s.mutablePlan(ctx, planID, caller)
	if err != nil {
		return nil, err
	}

	exerciseID, err := parseID(cmd.ExerciseID, "exerciseId")
	if err != nil {
		return nil, err
	}
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "exercise"}
		}
		return nil, &DatabaseError{Op: "exercise lookup", Err: err}
	}

	if _, err := s.planExerRepo.GetByPlanAndExercise(ctx, plan.ID, exerciseID); err == nil {
		return nil, &ConflictError{Message: "exercise is already part of this plan"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, &DatabaseError{Op: "plan exercise lookup", Err: err}
	}

	rows := []domain.PlanExercise{{
		PlanID:        plan.ID,
		ExerciseID:    exerciseID,
		SortOrder:     cmd.SortOrder,
		Sets:          cmd.Sets,
		Reps:          cmd.Reps,
		Tempo:         cmd.Tempo,
		DefaultWeight: cmd.DefaultWeight,
	}}
	if err := s.planExerRepo.CreateMany(ctx, rows); err != nil {
		return nil, &DatabaseError{Op: "plan exercise insert", Err: err}
	}

	resp := MapPlanExerciseToResponse(&rows[0], nil)
	return &resp, nil
}

// Update applies a partial patch to one exercise entry.
func (s *planExerciseService) Update(ctx context.Context, planID, exerciseID string, cmd UpdatePlanExerciseCommand, caller domain.Caller) (*PlanExerciseResponse, error) {
	plan, err := s.mutablePlan(ctx, planID, caller)
	if err != nil {
		return nil, err
	}
	row, err := s.planRow(ctx, plan.ID, exerciseID)
	if err != nil {
		return nil, err
	}

	if cmd.SortOrder != nil {
		row.SortOrder = *cmd.SortOrder
	}
	if cmd.Sets != nil {
		row.Sets = *cmd.Sets
	}
	if cmd.Reps != nil {
		row.Reps = *cmd.Reps
	}
	if cmd.Tempo != nil {
		row.Tempo = *cmd.Tempo
	}
	if cmd.DefaultWeight != nil {
		row.DefaultWeight = *cmd.DefaultWeight
	}

	if err := s.planExerRepo.Update(ctx, row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan exercise"}
		}
		return nil, &DatabaseError{Op: "plan exercise update", Err: err}
	}
	resp := MapPlanExerciseToResponse(row, nil)
	return &resp, nil
}

// Remove deletes one exercise entry. An emptied plan is kept and only
// flagged; deciding what to do with it stays with the trainer.
func (s *planExerciseService) Remove(ctx context.Context, planID, exerciseID string, caller domain.Caller) (*RemovePlanExerciseResult, error) {
	plan, err := s.mutablePlan(ctx, planID, caller)
	if err != nil {
		return nil, err
	}
	row, err := s.planRow(ctx, plan.ID, exerciseID)
	if err != nil {
		return nil, err
	}

	if err := s.planExerRepo.Delete(ctx, row.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan exercise"}
		}
		return nil, &DatabaseError{Op: "plan exercise delete", Err: err}
	}

	result := &RemovePlanExerciseResult{}
	remaining, err := s.planExerRepo.CountByPlanID(ctx, plan.ID)
	if err == nil && remaining == 0 {
		slog.Warn("plan has no exercises left", "planId", plan.ID.Hex())
		result.PlanNowEmpty = true
	}
	return result, nil
}

// MarkCompletion records the completion state of one entry. Trainers are
// always refused, even for plans they own: completion belongs to the client.
func (s *planExerciseService) MarkCompletion(ctx context.Context, planID, exerciseID string, cmd CompletionCommand, caller domain.Caller) (*PlanExerciseResponse, error) {
	if caller.IsTrainer() {
		return nil, &ForbiddenError{Message: "trainers cannot mark exercise completion"}
	}

	id, err := parseID(planID, "planId")
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan"}
		}
		return nil, &DatabaseError{Op: "plan lookup", Err: err}
	}
	if !policy.CanMarkCompletion(caller, plan) {
		return nil, &NotFoundError{Resource: "plan"}
	}

	row, err := s.planRow(ctx, plan.ID, exerciseID)
	if err != nil {
		return nil, err
	}

	var reasonID *primitive.ObjectID
	if !cmd.Completed {
		if cmd.ReasonID == "" && cmd.CustomReason == "" {
			return nil, &ValidationError{Field: "reason", Message: "a not-completed mark requires reasonId or customReason"}
		}
		if cmd.ReasonID != "" {
			rid, err := parseID(cmd.ReasonID, "reasonId")
			if err != nil {
				return nil, err
			}
			if _, err := s.reasonRepo.GetByID(ctx, rid); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, &NotFoundError{Resource: "standard reason"}
				}
				return nil, &DatabaseError{Op: "reason lookup", Err: err}
			}
			reasonID = &rid
		}
	}

	// The reason fields are replaced as a pair on every mark; completing an
	// exercise wipes any previously recorded reason.
	row.IsCompleted = cmd.Completed
	row.ReasonID = reasonID
	if cmd.Completed {
		row.CustomReason = ""
	} else {
		row.CustomReason = cmd.CustomReason
	}

	if err := s.planExerRepo.Update(ctx, row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan exercise"}
		}
		return nil, &DatabaseError{Op: "completion update", Err: err}
	}
	resp := MapPlanExerciseToResponse(row, nil)
	return &resp, nil
}

// GetCompletion returns one completion record per entry, ordered by sortOrder.
func (s *planExerciseService) GetCompletion(ctx context.Context, planID string, caller domain.Caller) ([]CompletionRecord, error) {
	id, err := parseID(planID, "planId")
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan"}
		}
		return nil, &DatabaseError{Op: "plan lookup", Err: err}
	}
	if !policy.CanReadPlan(caller, plan) {
		return nil, &NotFoundError{Resource: "plan"}
	}

	rows, err := s.planExerRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, &DatabaseError{Op: "plan exercise fetch", Err: err}
	}

	records := make([]CompletionRecord, len(rows))
	for i := range rows {
		records[i] = CompletionRecord{
			ExerciseID:   rows[i].ExerciseID.Hex(),
			SortOrder:    rows[i].SortOrder,
			IsCompleted:  rows[i].IsCompleted,
			ReasonID:     hexOrNil(rows[i].ReasonID),
			CustomReason: rows[i].CustomReason,
		}
	}
	return records, nil
}

// --- helpers ---

// mutablePlan resolves a plan and applies both gates: read visibility first
// (absence and invisibility collapse to not found), then mutation rights.
func (s *planExerciseService) mutablePlan(ctx context.Context, planID string, caller domain.Caller) (*domain.Plan, error) {
	id, err := parseID(planID, "planId")
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan"}
		}
		return nil, &DatabaseError{Op: "plan lookup", Err: err}
	}
	if !policy.CanReadPlan(caller, plan) {
		return nil, &NotFoundError{Resource: "plan"}
	}
	if !policy.CanMutatePlan(caller, plan) {
		return nil, &ForbiddenError{Message: "cannot modify this plan"}
	}
	return plan, nil
}

// planRow resolves the row linking the given exercise to the plan.
func (s *planExerciseService) planRow(ctx context.Context, planID primitive.ObjectID, exerciseID string) (*domain.PlanExercise, error) {
	id, err := parseID(exerciseID, "exerciseId")
	if err != nil {
		return nil, err
	}
	row, err := s.planExerRepo.GetByPlanAndExercise(ctx, planID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan exercise"}
		}
		return nil, &DatabaseError{Op: "plan exercise lookup", Err: err}
	}
	return row, nil
}
