package api

import (
	"alcyxob/coaching-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan and plan exercise service dependencies. The
// nested /plans/:id/exercises routes live here too.
type PlanHandler struct {
	planService     service.PlanService
	planExerService service.PlanExerciseService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, planExerService service.PlanExerciseService) *PlanHandler {
	return &PlanHandler{planService: planService, planExerService: planExerService}
}

// --- Request Structs ---

type CreatePlanRequest struct {
	Name        string                      `json:"name" binding:"required"`
	Description string                      `json:"description"`
	TrainerID   string                      `json:"trainerId"`
	ClientID    string                      `json:"clientId"`
	Exercises   []service.PlanExerciseInput `json:"exercises" binding:"required,min=1"`
}

type UpdatePlanRequest struct {
	Name        *string                      `json:"name"`
	Description *string                      `json:"description"`
	TrainerID   *string                      `json:"trainerId"`
	ClientID    *string                      `json:"clientId"`
	Exercises   *[]service.PlanExerciseInput `json:"exercises"`
}

type VisibilityRequest struct {
	IsHidden *bool `json:"isHidden" binding:"required"`
}

type AddPlanExerciseRequest struct {
	ExerciseID    string  `json:"exerciseId" binding:"required"`
	SortOrder     int     `json:"sortOrder"`
	Sets          int     `json:"sets" binding:"omitempty,gte=0"`
	Reps          int     `json:"reps" binding:"omitempty,gte=0"`
	Tempo         string  `json:"tempo"`
	DefaultWeight float64 `json:"defaultWeight" binding:"omitempty,gte=0"`
}

type UpdatePlanExerciseRequest struct {
	SortOrder     *int     `json:"sortOrder"`
	Sets          *int     `json:"sets" binding:"omitempty,gte=0"`
	Reps          *int     `json:"reps" binding:"omitempty,gte=0"`
	Tempo         *string  `json:"tempo"`
	DefaultWeight *float64 `json:"defaultWeight" binding:"omitempty,gte=0"`
}

type CompletionRequest struct {
	Completed    *bool  `json:"completed" binding:"required"`
	ReasonID     string `json:"reasonId"`
	CustomReason string `json:"customReason"`
}

// --- Plan Handler Methods ---

// CreatePlan godoc
// @Summary Create a training plan
// @Description Creates the plan and its initial exercise entries. The entry
// @Description batch is validated in full before anything is written.
// @Tags Plans
// @Success 201 {object} service.PlanResponse
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), service.CreatePlanCommand{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
		ClientID:    req.ClientID,
		Exercises:   req.Exercises,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	page, err := h.planService.List(c.Request.Context(), service.PlanListQuery{
		TrainerID:     c.Query("trainerId"),
		ClientID:      c.Query("clientId"),
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

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), c.Param("id"), service.UpdatePlanCommand{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
		ClientID:    req.ClientID,
		Exercises:   req.Exercises,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan soft-deletes by default; ?hard=true removes the plan and its
// exercise entries.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	if err := h.planService.Delete(c.Request.Context(), c.Param("id"), caller, c.Query("hard") == "true"); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) SetPlanVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	plan, err := h.planService.ToggleVisibility(c.Request.Context(), c.Param("id"), *req.IsHidden, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Plan Exercise Handler Methods ---

func (h *PlanHandler) AddPlanExercise(c *gin.Context) {
	var req AddPlanExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	entry, err := h.planExerService.Add(c.Request.Context(), c.Param("id"), service.AddPlanExerciseCommand{
		ExerciseID:    req.ExerciseID,
		SortOrder:     req.SortOrder,
		Sets:          req.Sets,
		Reps:          req.Reps,
		Tempo:         req.Tempo,
		DefaultWeight: req.DefaultWeight,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *PlanHandler) UpdatePlanExercise(c *gin.Context) {
	var req UpdatePlanExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	entry, err := h.planExerService.Update(c.Request.Context(), c.Param("id"), c.Param("exerciseId"), service.UpdatePlanExerciseCommand{
		SortOrder:     req.SortOrder,
		Sets:          req.Sets,
		Reps:          req.Reps,
		Tempo:         req.Tempo,
		DefaultWeight: req.DefaultWeight,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *PlanHandler) RemovePlanExercise(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	result, err := h.planExerService.Remove(c.Request.Context(), c.Param("id"), c.Param("exerciseId"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MarkCompletion records a done / not-done mark. A not-done mark must carry
// either a standard reason id or a free-text reason.
func (h *PlanHandler) MarkCompletion(c *gin.Context) {
	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	entry, err := h.planExerService.MarkCompletion(c.Request.Context(), c.Param("id"), c.Param("exerciseId"), service.CompletionCommand{
		Completed:    *req.Completed,
		ReasonID:     req.ReasonID,
		CustomReason: req.CustomReason,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *PlanHandler) GetCompletion(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	records, err := h.planExerService.GetCompletion(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
