package service

import (
	"alcyxob/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Outward DTO shapes ---
//
// Pure, stateless translation between stored rows and the shapes the HTTP
// layer serialises. Object ids become hex strings, nullable references become
// nullable strings, and summary views subset the full rows.

// UserResponse is the full outward shape of a user profile.
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"isActive"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	TrainerID *string `json:"trainerId"`
}

// UserSummary is the subset used in list pages.
type UserSummary struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  bool   `json:"isActive"`
}

// UserPage is one page of user summaries plus the total matched count.
type UserPage struct {
	Items []UserSummary `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ExerciseResponse is the outward shape of a catalog exercise.
type ExerciseResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	VideoToken    string  `json:"videoToken,omitempty"`
	DefaultWeight float64 `json:"defaultWeight,omitempty"`
	Tempo         string  `json:"tempo,omitempty"`
	IsHidden      bool    `json:"isHidden"`
}

// ExercisePage is one page of exercises plus the total matched count.
type ExercisePage struct {
	Items []ExerciseResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PlanExerciseResponse is one exercise entry of a plan, optionally enriched
// with the exercise's display fields.
type PlanExerciseResponse struct {
	ID            string  `json:"id"`
	ExerciseID    string  `json:"exerciseId"`
	ExerciseName  string  `json:"exerciseName,omitempty"`
	SortOrder     int     `json:"sortOrder"`
	Sets          int     `json:"sets,omitempty"`
	Reps          int     `json:"reps,omitempty"`
	Tempo         string  `json:"tempo,omitempty"`
	DefaultWeight float64 `json:"defaultWeight,omitempty"`
	IsCompleted   bool    `json:"isCompleted"`
	ReasonID      *string `json:"reasonId,omitempty"`
	CustomReason  string  `json:"customReason,omitempty"`
}

// PlanResponse is the outward shape of a plan with its exercise entries.
type PlanResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	TrainerID   *string                `json:"trainerId"`
	ClientID    *string                `json:"clientId"`
	ClientName  string                 `json:"clientName,omitempty"`
	IsHidden    bool                   `json:"isHidden"`
	Exercises   []PlanExerciseResponse `json:"exercises"`
}

// PlanPage is one page of plans plus the total matched count.
type PlanPage struct {
	Items []PlanResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// CompletionRecord is one completion entry of a plan, ordered by sortOrder.
type CompletionRecord struct {
	ExerciseID   string  `json:"exerciseId"`
	SortOrder    int     `json:"sortOrder"`
	IsCompleted  bool    `json:"isCompleted"`
	ReasonID     *string `json:"reasonId,omitempty"`
	CustomReason string  `json:"customReason,omitempty"`
}

// ReasonResponse is the outward shape of a standard reason.
type ReasonResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Label string `json:"label"`
}

// --- Mappers ---

func hexOrNil(id *primitive.ObjectID) *string {
	if id == nil {
		return nil
	}
	s := id.Hex()
	return &s
}

// MapUserToResponse converts a domain.User to its outward shape.
func MapUserToResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		TrainerID: hexOrNil(u.TrainerID),
	}
}

// MapUserToSummary converts a domain.User to its list-page subset.
func MapUserToSummary(u *domain.User) UserSummary {
	return UserSummary{
		ID:        u.ID.Hex(),
		Role:      string(u.Role),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
	}
}

// MapExerciseToResponse converts a domain.Exercise to its outward shape.
func MapExerciseToResponse(e *domain.Exercise) *ExerciseResponse {
	return &ExerciseResponse{
		ID:            e.ID.Hex(),
		Name:          e.Name,
		Description:   e.Description,
		VideoToken:    e.VideoToken,
		DefaultWeight: e.DefaultWeight,
		Tempo:         e.Tempo,
		IsHidden:      e.IsHidden,
	}
}

// MapPlanExerciseToResponse converts one plan exercise row. The exercise
// lookup map may be nil for summary views that skip catalog enrichment.
func MapPlanExerciseToResponse(row *domain.PlanExercise, exercises map[primitive.ObjectID]domain.Exercise) PlanExerciseResponse {
	resp := PlanExerciseResponse{
		ID:            row.ID.Hex(),
		ExerciseID:    row.ExerciseID.Hex(),
		SortOrder:     row.SortOrder,
		Sets:          row.Sets,
		Reps:          row.Reps,
		Tempo:         row.Tempo,
		DefaultWeight: row.DefaultWeight,
		IsCompleted:   row.IsCompleted,
		ReasonID:      hexOrNil(row.ReasonID),
		CustomReason:  row.CustomReason,
	}
	if ex, ok := exercises[row.ExerciseID]; ok {
		resp.ExerciseName = ex.Name
	}
	return resp
}

// MapPlanToResponse assembles the outward plan shape from its row, its
// exercise rows, the exercise catalog entries referenced, and the client's
// display name.
func MapPlanToResponse(plan *domain.Plan, rows []domain.PlanExercise, exercises map[primitive.ObjectID]domain.Exercise, clientName string) *PlanResponse {
	entries := make([]PlanExerciseResponse, len(rows))
	for i := range rows {
		entries[i] = MapPlanExerciseToResponse(&rows[i], exercises)
	}
	return &PlanResponse{
		ID:          plan.ID.Hex(),
		Name:        plan.Name,
		Description: plan.Description,
		TrainerID:   hexOrNil(plan.TrainerID),
		ClientID:    hexOrNil(plan.ClientID),
		ClientName:  clientName,
		IsHidden:    plan.IsHidden,
		Exercises:   entries,
	}
}

// MapReasonToResponse converts a domain.StandardReason to its outward shape.
func MapReasonToResponse(r *domain.StandardReason) *ReasonResponse {
	return &ReasonResponse{
		ID:    r.ID.Hex(),
		Code:  r.Code,
		Label: r.Label,
	}
}
