package api

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- Request Structs ---

type CreateUserRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Role      domain.Role `json:"role" binding:"required,oneof=admin trainer client"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	TrainerID string      `json:"trainerId"` // Required when role is client
}

type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	IsActive  *bool   `json:"isActive"`  // Admin only
	TrainerID *string `json:"trainerId"` // Admin only; empty string unassigns
}

// --- Handler Methods ---

// CreateUser godoc
// @Summary Create a new user account
// @Description Admin-only. Provisions the auth identity and profile, then
// @Description mails an activation link.
// @Tags Users
// @Success 201 {object} service.UserResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), service.CreateUserCommand{
		Email:     req.Email,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TrainerID: req.TrainerID,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	query := service.UserListQuery{
		Role:    domain.Role(c.Query("role")),
		Page:    intQuery(c, "page", 1),
		Limit:   intQuery(c, "limit", 0),
		SortBy:  c.Query("sortBy"),
		SortDir: c.Query("sortDir"),
	}
	if raw, ok := c.GetQuery("isActive"); ok {
		active := raw == "true"
		query.IsActive = &active
	}

	page, err := h.userService.List(c.Request.Context(), query, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), service.UpdateUserCommand{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
		TrainerID: req.TrainerID,
	}, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes the profile and its identity. A failed identity cleanup
// is reported in the body, not as an error.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
		return
	}

	result, err := h.userService.Delete(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
