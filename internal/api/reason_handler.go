package api

import (
	"alcyxob/coaching-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReasonHandler holds the standard reason service dependency.
type ReasonHandler struct {
	reasonService service.ReasonService
}

// NewReasonHandler creates a new ReasonHandler.
func NewReasonHandler(reasonService service.ReasonService) *ReasonHandler {
	return &ReasonHandler{reasonService: reasonService}
}

type CreateReasonRequest struct {
	Code  string `json:"code" binding:"required"`
	Label string `json:"label" binding:"required"`
}

type UpdateReasonRequest struct {
	Code  *string `json:"code"`
	Label *string `json:"label"`
}

func (h *ReasonHandler) CreateReason(c *gin.Context) {
	var req CreateReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	reason, err := h.reasonService.Create(c.Request.Context(), service.CreateReasonCommand{
		Code:  req.Code,
		Label: req.Label,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reason)
}

func (h *ReasonHandler) GetReason(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	reason, err := h.reasonService.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reason)
}

func (h *ReasonHandler) ListReasons(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	reasons, err := h.reasonService.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reasons)
}

func (h *ReasonHandler) UpdateReason(c *gin.Context) {
	var req UpdateReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	reason, err := h.reasonService.Update(c.Request.Context(), c.Param("id"), service.UpdateReasonCommand{
		Code:  req.Code,
		Label: req.Label,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reason)
}

// DeleteReason refuses while any completion record still references the reason.
func (h *ReasonHandler) DeleteReason(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	if err := h.reasonService.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
