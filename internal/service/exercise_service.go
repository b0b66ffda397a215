package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/policy"
	"alcyxob/coaching-app/internal/repository"
	"alcyxob/coaching-app/internal/storage"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// CreateExerciseCommand carries the fields of a new catalog exercise.
type CreateExerciseCommand struct {
	Name          string
	Description   string
	DefaultWeight float64
	Tempo         string
}

// UpdateExerciseCommand is a partial patch; nil fields are left untouched.
type UpdateExerciseCommand struct {
	Name          *string
	Description   *string
	DefaultWeight *float64
	Tempo         *string
}

// ExerciseListQuery carries caller-supplied list narrowing.
type ExerciseListQuery struct {
	NameContains  string
	IncludeHidden bool // Honoured for admins only
	Page          int
	Limit         int
	SortBy        string
	SortDir       string
}

// VideoUploadGrant is a short-lived permission to upload a demonstration video.
type VideoUploadGrant struct {
	UploadURL  string `json:"uploadUrl"`
	VideoToken string `json:"videoToken"`
}

// ExerciseService manages the shared exercise catalog. Writes are admin-only;
// non-admin readers never see hidden entries.
type ExerciseService interface {
	Create(ctx context.Context, cmd CreateExerciseCommand, caller domain.Caller) (*ExerciseResponse, error)
	Get(ctx context.Context, id string, caller domain.Caller) (*ExerciseResponse, error)
	List(ctx context.Context, query ExerciseListQuery, caller domain.Caller) (*ExercisePage, error)
	Update(ctx context.Context, id string, cmd UpdateExerciseCommand, caller domain.Caller) (*ExerciseResponse, error)
	// Delete soft-deletes by default; hard removal is refused while any plan
	// still references the exercise.
	Delete(ctx context.Context, id string, caller domain.Caller, hard bool) error

	RequestVideoUploadURL(ctx context.Context, id, contentType string, caller domain.Caller) (*VideoUploadGrant, error)
	GetVideoDownloadURL(ctx context.Context, id string, caller domain.Caller) (string, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	planExerRepo repository.PlanExerciseRepository
	videos       storage.VideoStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	planExerRepo repository.PlanExerciseRepository,
	videos storage.VideoStorage,
) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		planExerRepo: planExerRepo,
		videos:       videos,
	}
}

// Create adds a new exercise to the catalog.
func (s *exerciseService) Create(ctx context.Context, cmd CreateExerciseCommand, caller domain.Caller) (*ExerciseResponse, error) {
	if !policy.CanManageCatalog(caller) {
		return nil, &ForbiddenError{Message: "only administrators can manage the exercise catalog"}
	}
	if cmd.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "required"}
	}

	if err := s.assertNameFree(ctx, cmd.Name); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:          cmd.Name,
		Description:   cmd.Description,
		DefaultWeight: cmd.DefaultWeight,
		Tempo:         cmd.Tempo,
	}
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, &ConflictError{Message: "exercise with this name already exists"}
		}
		return nil, &DatabaseError{Op: "exercise insert", Err: err}
	}
	return MapExerciseToResponse(exercise), nil
}

// Get retrieves one exercise. Hidden entries are absent for non-admin callers.
func (s *exerciseService) Get(ctx context.Context, id string, caller domain.Caller) (*ExerciseResponse, error) {
	exercise, err := s.visibleExercise(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return MapExerciseToResponse(exercise), nil
}

// List returns a page of exercises. Hidden entries appear only for admins
// that ask for them.
func (s *exerciseService) List(ctx context.Context, query ExerciseListQuery, caller domain.Caller) (*ExercisePage, error) {
	filter := repository.ExerciseFilter{
		IncludeHidden: query.IncludeHidden && policy.CanSeeHiddenExercises(caller),
		NameContains:  query.NameContains,
		Page: repository.Page{
			Page:    query.Page,
			Limit:   query.Limit,
			SortBy:  query.SortBy,
			SortDir: query.SortDir,
		},
	}

	exercises, total, err := s.exerciseRepo.List(ctx, filter)
	if err != nil {
		return nil, &DatabaseError{Op: "exercise list", Err: err}
	}

	items := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		items[i] = *MapExerciseToResponse(&exercises[i])
	}
	return &ExercisePage{
		Items: items,
		Total: total,
		Page:  maxInt(query.Page, 1),
		Limit: filter.Page.Size(),
	}, nil
}

// Update applies a partial patch; a rename revalidates name uniqueness.
func (s *exerciseService) Update(ctx context.Context, id string, cmd UpdateExerciseCommand, caller domain.Caller) (*ExerciseResponse, error) {
	if !policy.CanManageCatalog(caller) {
		return nil, &ForbiddenError{Message: "only administrators can manage the exercise catalog"}
	}
	exercise, err := s.visibleExercise(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && *cmd.Name != exercise.Name {
		if *cmd.Name == "" {
			return nil, &ValidationError{Field: "name", Message: "required"}
		}
		if err := s.assertNameFree(ctx, *cmd.Name); err != nil {
			return nil, err
		}
		exercise.Name = *cmd.Name
	}
	if cmd.Description != nil {
		exercise.Description = *cmd.Description
	}
	if cmd.DefaultWeight != nil {
		exercise.DefaultWeight = *cmd.DefaultWeight
	}
	if cmd.Tempo != nil {
		exercise.Tempo = *cmd.Tempo
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "exercise"}
		}
		return nil, &DatabaseError{Op: "exercise update", Err: err}
	}
	return MapExerciseToResponse(exercise), nil
}

// Delete soft-deletes (hidden flag) or hard-deletes. Soft-deleting an already
// hidden exercise reports not found; hard delete is blocked while any plan
// references the exercise.
func (s *exerciseService) Delete(ctx context.Context, id string, caller domain.Caller, hard bool) error {
	if !policy.CanManageCatalog(caller) {
		return &ForbiddenError{Message: "only administrators can manage the exercise catalog"}
	}
	exercise, err := s.visibleExercise(ctx, id, caller)
	if err != nil {
		return err
	}

	if !hard {
		if exercise.IsHidden {
			return &NotFoundError{Resource: "exercise"}
		}
		exercise.IsHidden = true
		if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
			return &DatabaseError{Op: "exercise soft delete", Err: err}
		}
		return nil
	}

	inUse, err := s.planExerRepo.CountByExerciseID(ctx, exercise.ID)
	if err != nil {
		return &DatabaseError{Op: "exercise usage check", Err: err}
	}
	if inUse > 0 {
		return &ConflictError{Message: "exercise is referenced by existing plans"}
	}

	if err := s.exerciseRepo.Delete(ctx, exercise.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "exercise"}
		}
		return &DatabaseError{Op: "exercise delete", Err: err}
	}

	// Orphaned video objects are cleaned up best-effort.
	if exercise.VideoToken != "" {
		if err := s.videos.Delete(ctx, exercise.VideoToken); err != nil {
			slog.Warn("video cleanup failed after exercise delete",
				"exerciseId", exercise.ID.Hex(), "error", err)
		}
	}
	return nil
}

// RequestVideoUploadURL issues a presigned upload for a fresh video token and
// records the token on the exercise. Re-uploading replaces the token.
func (s *exerciseService) RequestVideoUploadURL(ctx context.Context, id, contentType string, caller domain.Caller) (*VideoUploadGrant, error) {
	if !policy.CanManageCatalog(caller) {
		return nil, &ForbiddenError{Message: "only administrators can manage the exercise catalog"}
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return nil, &ValidationError{Field: "contentType", Message: "must be a video content type"}
	}
	exercise, err := s.visibleExercise(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	uploadURL, err := s.videos.PresignUpload(ctx, token, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, &DatabaseError{Op: "video upload presign", Err: err}
	}

	exercise.VideoToken = token
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, &DatabaseError{Op: "exercise video token update", Err: err}
	}
	return &VideoUploadGrant{UploadURL: uploadURL, VideoToken: token}, nil
}

// GetVideoDownloadURL issues a presigned view URL for any caller that can see
// the exercise.
func (s *exerciseService) GetVideoDownloadURL(ctx context.Context, id string, caller domain.Caller) (string, error) {
	exercise, err := s.visibleExercise(ctx, id, caller)
	if err != nil {
		return "", err
	}
	if exercise.VideoToken == "" {
		return "", &NotFoundError{Resource: "exercise video"}
	}

	url, err := s.videos.PresignDownload(ctx, exercise.VideoToken, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", &DatabaseError{Op: "video download presign", Err: err}
	}
	return url, nil
}

// --- helpers ---

// visibleExercise fetches an exercise and hides hidden entries from
// non-admin callers as if they did not exist.
func (s *exerciseService) visibleExercise(ctx context.Context, id string, caller domain.Caller) (*domain.Exercise, error) {
	exerciseID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "exercise"}
		}
		return nil, &DatabaseError{Op: "exercise lookup", Err: err}
	}
	if exercise.IsHidden && !policy.CanSeeHiddenExercises(caller) {
		return nil, &NotFoundError{Resource: "exercise"}
	}
	return exercise, nil
}

func (s *exerciseService) assertNameFree(ctx context.Context, name string) error {
	if _, err := s.exerciseRepo.GetByName(ctx, name); err == nil {
		return &ConflictError{Message: "exercise with this name already exists"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return &DatabaseError{Op: "exercise name lookup", Err: err}
	}
	return nil
}
