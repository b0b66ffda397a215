package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/policy"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanExerciseInput is one exercise entry of an incoming create/replace batch.
type PlanExerciseInput struct {
	ExerciseID    string  `json:"exerciseId"`
	SortOrder     int     `json:"sortOrder"`
	Sets          int     `json:"sets"`
	Reps          int     `json:"reps"`
	Tempo         string  `json:"tempo"`
	DefaultWeight float64 `json:"defaultWeight"`
}

// CreatePlanCommand carries the fields of a new plan and its initial batch
// of exercise entries.
type CreatePlanCommand struct {
	Name        string
	Description string
	TrainerID   string // Hex id, optional
	ClientID    string // Hex id, optional
	Exercises   []PlanExerciseInput
}

// UpdatePlanCommand is a partial patch. A non-nil Exercises replaces the
// plan's exercise rows wholesale; there is no diffing.
type UpdatePlanCommand struct {
	Name        *string
	Description *string
	TrainerID   *string // Admin only; empty string unassigns
	ClientID    *string // Empty string unassigns
	Exercises   *[]PlanExerciseInput
}

// PlanListQuery carries caller-supplied list narrowing.
type PlanListQuery struct {
	TrainerID     string // Hex id, admins only; ignored once the scope forces one
	ClientID      string
	IncludeHidden bool
	Page          int
	Limit         int
	SortBy        string
	SortDir       string
}

// PlanService manages plans and orchestrates their two-table writes.
type PlanService interface {
	Create(ctx context.Context, cmd CreatePlanCommand, caller domain.Caller) (*PlanResponse, error)
	Get(ctx context.Context, id string, caller domain.Caller) (*PlanResponse, error)
	List(ctx context.Context, query PlanListQuery, caller domain.Caller) (*PlanPage, error)
	Update(ctx context.Context, id string, cmd UpdatePlanCommand, caller domain.Caller) (*PlanResponse, error)
	// Delete soft-deletes by default; hard removes the row and its exercise rows.
	Delete(ctx context.Context, id string, caller domain.Caller, hard bool) error
	ToggleVisibility(ctx context.Context, id string, isHidden bool, caller domain.Caller) (*PlanResponse, error)
}

type planService struct {
	planRepo     repository.PlanRepository
	planExerRepo repository.PlanExerciseRepository
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	planExerRepo repository.PlanExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	userRepo repository.UserRepository,
) PlanService {
	return &planService{
		planRepo:     planRepo,
		planExerRepo: planExerRepo,
		exerciseRepo: exerciseRepo,
		userRepo:     userRepo,
	}
}

// Create validates everything up front, inserts the plan row, then the
// exercise batch. A failed batch insert deletes the plan row again before
// the error is raised.
func (s *planService) Create(ctx context.Context, cmd CreatePlanCommand, caller domain.Caller) (*PlanResponse, error) {
	if caller.IsClient() {
		return nil, &ForbiddenError{Message: "clients cannot create plans"}
	}
	if cmd.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "required"}
	}

	var trainerID *primitive.ObjectID
	switch {
	case caller.IsTrainer():
		// A trainer always owns the plans they create.
		if cmd.TrainerID != "" && cmd.TrainerID != caller.ID.Hex() {
			return nil, &ForbiddenError{Message: "trainers can only create plans for themselves"}
		}
		self := caller.ID
		trainerID = &self
	case cmd.TrainerID != "":
		id, err := parseID(cmd.TrainerID, "trainerId")
		if err != nil {
			return nil, err
		}
		if err := s.assertRole(ctx, id, domain.RoleTrainer, "trainerId"); err != nil {
			return nil, err
		}
		trainerID = &id
	}

	var clientID *primitive.ObjectID
	var clientName string
	if cmd.ClientID != "" {
		id, err := parseID(cmd.ClientID, "clientId")
		if err != nil {
			return nil, err
		}
		client, err := s.getUserWithRole(ctx, id, domain.RoleClient, "clientId")
		if err != nil {
			return nil, err
		}
		clientID = &id
		clientName = client.DisplayName()
	}

	rows, exercises, err := s.buildExerciseRows(ctx, cmd.Exercises)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		Name:        cmd.Name,
		Description: cmd.Description,
		TrainerID:   trainerID,
		ClientID:    clientID,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, &DatabaseError{Op: "plan insert", Err: err}
	}

	for i := range rows {
		rows[i].PlanID = planID
	}
	if err := s.planExerRepo.CreateMany(ctx, rows); err != nil {
		_, dbErr := compensate("plan exercise batch insert", err, func() error {
			return s.planRepo.Delete(ctx, planID)
		})
		return nil, dbErr
	}

	created, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, &DatabaseError{Op: "plan refetch", Err: err}
	}
	createdRows, err := s.planExerRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, &DatabaseError{Op: "plan exercise fetch", Err: err}
	}
	return MapPlanToResponse(created, createdRows, exercises, clientName), nil
}

// Get retrieves one plan with its exercise entries joined with catalog detail
// and the client display name.
func (s *planService) Get(ctx context.Context, id string, caller domain.Caller) (*PlanResponse, error) {
	plan, err := s.visiblePlan(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, plan)
}

// List returns a page of plans inside the caller's forced ownership scope,
// enriched by two batched secondary fetches: the exercise rows of the whole
// page, and the display names of the distinct clients on it.
func (s *planService) List(ctx context.Context, query PlanListQuery, caller domain.Caller) (*PlanPage, error) {
	filter := policy.PlanListScope(caller)

	// Caller narrowing; the forced equality always wins.
	if filter.TrainerID == nil && query.TrainerID != "" {
		id, err := parseID(query.TrainerID, "trainerId")
		if err != nil {
			return nil, err
		}
		filter.TrainerID = &id
	}
	if filter.ClientID == nil && query.ClientID != "" {
		id, err := parseID(query.ClientID, "clientId")
		if err != nil {
			return nil, err
		}
		filter.ClientID = &id
	}
	if filter.IncludeHidden {
		filter.IncludeHidden = query.IncludeHidden
	}
	filter.Page = repository.Page{
		Page:    query.Page,
		Limit:   query.Limit,
		SortBy:  query.SortBy,
		SortDir: query.SortDir,
	}

	plans, total, err := s.planRepo.List(ctx, filter)
	if err != nil {
		return nil, &DatabaseError{Op: "plan list", Err: err}
	}

	planIDs := make([]primitive.ObjectID, len(plans))
	clientIDSet := map[primitive.ObjectID]struct{}{}
	for i := range plans {
		planIDs[i] = plans[i].ID
		if plans[i].ClientID != nil {
			clientIDSet[*plans[i].ClientID] = struct{}{}
		}
	}

	rows, err := s.planExerRepo.GetByPlanIDs(ctx, planIDs)
	if err != nil {
		return nil, &DatabaseError{Op: "plan exercise batch fetch", Err: err}
	}
	rowsByPlan := map[primitive.ObjectID][]domain.PlanExercise{}
	for _, row := range rows {
		rowsByPlan[row.PlanID] = append(rowsByPlan[row.PlanID], row)
	}

	clientIDs := make([]primitive.ObjectID, 0, len(clientIDSet))
	for id := range clientIDSet {
		clientIDs = append(clientIDs, id)
	}
	clients, err := s.userRepo.GetByIDs(ctx, clientIDs)
	if err != nil {
		return nil, &DatabaseError{Op: "client name batch fetch", Err: err}
	}
	namesByID := map[primitive.ObjectID]string{}
	for i := range clients {
		namesByID[clients[i].ID] = clients[i].DisplayName()
	}

	items := make([]PlanResponse, len(plans))
	for i := range plans {
		var clientName string
		if plans[i].ClientID != nil {
			clientName = namesByID[*plans[i].ClientID]
		}
		items[i] = *MapPlanToResponse(&plans[i], rowsByPlan[plans[i].ID], nil, clientName)
	}
	return &PlanPage{
		Items: items,
		Total: total,
		Page:  maxInt(query.Page, 1),
		Limit: filter.Page.Size(),
	}, nil
}

// Update applies a partial patch. When the command carries an exercise list
// the previous rows are dropped and replaced wholesale with the new batch.
func (s *planService) Update(ctx context.Context, id string, cmd UpdatePlanCommand, caller domain.Caller) (*PlanResponse, error) {
	plan, err := s.visiblePlan(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutatePlan(caller, plan) {
		return nil, &ForbiddenError{Message: "cannot modify this plan"}
	}

	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, &ValidationError{Field: "name", Message: "required"}
		}
		plan.Name = *cmd.Name
	}
	if cmd.Description != nil {
		plan.Description = *cmd.Description
	}
	if cmd.TrainerID != nil {
		// Plan ownership is fixed at creation for trainers.
		if !caller.IsAdmin() {
			return nil, &ForbiddenError{Message: "only administrators can reassign plan ownership"}
		}
		if *cmd.TrainerID == "" {
			plan.TrainerID = nil
		} else {
			trainerID, err := parseID(*cmd.TrainerID, "trainerId")
			if err != nil {
				return nil, err
			}
			if err := s.assertRole(ctx, trainerID, domain.RoleTrainer, "trainerId"); err != nil {
				return nil, err
			}
			plan.TrainerID = &trainerID
		}
	}
	if cmd.ClientID != nil {
		if *cmd.ClientID == "" {
			plan.ClientID = nil
		} else {
			clientID, err := parseID(*cmd.ClientID, "clientId")
			if err != nil {
				return nil, err
			}
			if err := s.assertRole(ctx, clientID, domain.RoleClient, "clientId"); err != nil {
				return nil, err
			}
			plan.ClientID = &clientID
		}
	}

	if cmd.Exercises != nil {
		rows, _, err := s.buildExerciseRows(ctx, *cmd.Exercises)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].PlanID = plan.ID
		}
		// Full replace, not a diff. Two concurrent replaces race
		// last-write-wins with no conflict detection.
		if err := s.planExerRepo.DeleteByPlanID(ctx, plan.ID); err != nil {
			return nil, &DatabaseError{Op: "plan exercise replace", Err: err}
		}
		if err := s.planExerRepo.CreateMany(ctx, rows); err != nil {
			return nil, &DatabaseError{Op: "plan exercise replace", Err: err}
		}
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan"}
		}
		return nil, &DatabaseError{Op: "plan update", Err: err}
	}
	return s.assemble(ctx, plan)
}

// Delete soft-deletes (hidden flag) or hard-deletes (row removal plus its
// exercise rows). Soft-deleting an already hidden plan reports not found.
func (s *planService) Delete(ctx context.Context, id string, caller domain.Caller, hard bool) error {
	plan, err := s.visiblePlan(ctx, id, caller)
	if err != nil {
		return err
	}
	if !policy.CanMutatePlan(caller, plan) {
		return &ForbiddenError{Message: "cannot delete this plan"}
	}

	if !hard {
		if plan.IsHidden {
			return &NotFoundError{Resource: "plan"}
		}
		plan.IsHidden = true
		if err := s.planRepo.Update(ctx, plan); err != nil {
			return &DatabaseError{Op: "plan soft delete", Err: err}
		}
		return nil
	}

	if err := s.planRepo.Delete(ctx, plan.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "plan"}
		}
		return &DatabaseError{Op: "plan delete", Err: err}
	}
	if err := s.planExerRepo.DeleteByPlanID(ctx, plan.ID); err != nil {
		return &DatabaseError{Op: "plan exercise cascade delete", Err: err}
	}
	return nil
}

// ToggleVisibility sets the hidden flag directly and returns the refreshed plan.
func (s *planService) ToggleVisibility(ctx context.Context, id string, isHidden bool, caller domain.Caller) (*PlanResponse, error) {
	plan, err := s.visiblePlan(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutatePlan(caller, plan) {
		return nil, &ForbiddenError{Message: "cannot modify this plan"}
	}

	plan.IsHidden = isHidden
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, &DatabaseError{Op: "plan visibility update", Err: err}
	}
	return s.assemble(ctx, plan)
}

// --- helpers ---

// visiblePlan fetches a plan and applies read visibility: absence and lack
// of visibility both surface as NotFoundError.
func (s *planService) visiblePlan(ctx context.Context, id string, caller domain.Caller) (*domain.Plan, error) {
	planID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "plan"}
		}
		return nil, &DatabaseError{Op: "plan lookup", Err: err}
	}
	if !policy.CanReadPlan(caller, plan) {
		return nil, &NotFoundError{Resource: "plan"}
	}
	return plan, nil
}

// buildExerciseRows validates an incoming batch and converts it to rows.
// Every referenced exercise must exist before any write happens.
func (s *planService) buildExerciseRows(ctx context.Context, inputs []PlanExerciseInput) ([]domain.PlanExercise, map[primitive.ObjectID]domain.Exercise, error) {
	if len(inputs) == 0 {
		return nil, nil, &ValidationError{Field: "exercises", Message: "at least one exercise is required"}
	}

	seen := map[primitive.ObjectID]struct{}{}
	rows := make([]domain.PlanExercise, len(inputs))
	ids := make([]primitive.ObjectID, 0, len(inputs))
	for i, in := range inputs {
		exerciseID, err := parseID(in.ExerciseID, "exercises.exerciseId")
		if err != nil {
			return nil, nil, err
		}
		if _, dup := seen[exerciseID]; dup {
			return nil, nil, &ValidationError{Field: "exercises", Message: "duplicate exercise reference"}
		}
		seen[exerciseID] = struct{}{}
		ids = append(ids, exerciseID)
		rows[i] = domain.PlanExercise{
			ExerciseID:    exerciseID,
			SortOrder:     in.SortOrder,
			Sets:          in.Sets,
			Reps:          in.Reps,
			Tempo:         in.Tempo,
			DefaultWeight: in.DefaultWeight,
		}
	}

	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, &DatabaseError{Op: "exercise reference check", Err: err}
	}
	byID := map[primitive.ObjectID]domain.Exercise{}
	for i := range exercises {
		byID[exercises[i].ID] = exercises[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, nil, &NotFoundError{Resource: "exercise"}
		}
	}
	return rows, byID, nil
}

// assemble builds the enriched outward shape of one plan.
func (s *planService) assemble(ctx context.Context, plan *domain.Plan) (*PlanResponse, error) {
	rows, err := s.planExerRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, &DatabaseError{Op: "plan exercise fetch", Err: err}
	}

	ids := make([]primitive.ObjectID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ExerciseID
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, &DatabaseError{Op: "exercise detail fetch", Err: err}
	}
	byID := map[primitive.ObjectID]domain.Exercise{}
	for i := range exercises {
		byID[exercises[i].ID] = exercises[i]
	}

	var clientName string
	if plan.ClientID != nil {
		client, err := s.userRepo.GetByID(ctx, *plan.ClientID)
		if err == nil {
			clientName = client.DisplayName()
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, &DatabaseError{Op: "client name fetch", Err: err}
		}
	}
	return MapPlanToResponse(plan, rows, byID, clientName), nil
}

// getUserWithRole fetches a user and checks the expected role, surfacing a
// ValidationError on the named command field otherwise.
func (s *planService) getUserWithRole(ctx context.Context, id primitive.ObjectID, role domain.Role, field string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ValidationError{Field: field, Message: "must reference an existing " + string(role)}
		}
		return nil, &DatabaseError{Op: "user reference check", Err: err}
	}
	if user.Role != role {
		return nil, &ValidationError{Field: field, Message: "must reference an existing " + string(role)}
	}
	return user, nil
}

func (s *planService) assertRole(ctx context.Context, id primitive.ObjectID, role domain.Role, field string) error {
	_, err := s.getUserWithRole(ctx, id, role, field)
	return err
}
