package api

import (
	"alcyxob/coaching-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request Structs ---

type CreateExerciseRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	DefaultWeight float64 `json:"defaultWeight" binding:"omitempty,gte=0"`
	Tempo         string  `json:"tempo"`
}

type UpdateExerciseRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	DefaultWeight *float64 `json:"defaultWeight" binding:"omitempty,gte=0"`
	Tempo         *string  `json:"tempo"`
}

type VideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), service.CreateExerciseCommand{
		Name:          req.Name,
		Description:   req.Description,
		DefaultWeight: req.DefaultWeight,
		Tempo:         req.Tempo,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	exercise, err := h.exerciseService.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	page, err := h.exerciseService.List(c.Request.Context(), service.ExerciseListQuery{
		NameContains:  c.Query("name"),
		IncludeHidden: c.Query("includeHidden") == "true",
		Page:          intQuery(c, "page", 1),
		Limit:         intQuery(c, "limit", 0),
		SortBy:        c.Query("sortBy"),
		SortDir:       c.Query("sortDir"),
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	exercise, err := h.exerciseService.Update(c.Request.Context(), c.Param("id"), service.UpdateExerciseCommand{
		Name:          req.Name,
		Description:   req.Description,
		DefaultWeight: req.DefaultWeight,
		Tempo:         req.Tempo,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise soft-deletes by default; ?hard=true removes the row, which
// is refused while any plan still references it.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	if err := h.exerciseService.Delete(c.Request.Context(), c.Param("id"), caller, c.Query("hard") == "true"); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUpload returns a presigned PUT URL for a demonstration video.
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	grant, err := h.exerciseService.RequestVideoUploadURL(c.Request.Context(), c.Param("id"), req.ContentType, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

// GetVideoDownload returns a presigned GET URL for the stored video.
func (h *ExerciseHandler) GetVideoDownload(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	url, err := h.exerciseService.GetVideoDownloadURL(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
