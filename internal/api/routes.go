package api

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	exerciseService service.ExerciseService,
	planService service.PlanService,
	planExerService service.PlanExerciseService,
	reasonService service.ReasonService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	planHandler := NewPlanHandler(planService, planExerService)
	reasonHandler := NewReasonHandler(reasonService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		protected.GET("/me", func(c *gin.Context) {
			caller, err := callerFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": caller.ID.Hex(), "role": caller.Role})
		})

		// --- User Routes ---
		// Read access is scoped inside the service; writes beyond the own
		// profile are admin-gated there too.
		userGroup := protected.Group("/users")
		{
			userGroup.POST("", RoleMiddleware(domain.RoleAdmin), userHandler.CreateUser)
			userGroup.GET("", userHandler.ListUsers)
			userGroup.GET("/:id", userHandler.GetUser)
			userGroup.PUT("/:id", userHandler.UpdateUser)
			userGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), userHandler.DeleteUser)
		}

		// --- Exercise Catalog Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", RoleMiddleware(domain.RoleAdmin), exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin), exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), exerciseHandler.DeleteExercise)

			exerciseGroup.POST("/:id/video-upload", RoleMiddleware(domain.RoleAdmin), exerciseHandler.RequestVideoUpload)
			exerciseGroup.GET("/:id/video", exerciseHandler.GetVideoDownload)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:id", planHandler.GetPlan)
			planGroup.PUT("/:id", planHandler.UpdatePlan)
			planGroup.DELETE("/:id", planHandler.DeletePlan)
			planGroup.PATCH("/:id/visibility", planHandler.SetPlanVisibility)

			// Nested exercise entries, addressed by catalog exercise id.
			planGroup.POST("/:id/exercises", planHandler.AddPlanExercise)
			planGroup.PUT("/:id/exercises/:exerciseId", planHandler.UpdatePlanExercise)
			planGroup.DELETE("/:id/exercises/:exerciseId", planHandler.RemovePlanExercise)
			planGroup.POST("/:id/exercises/:exerciseId/completion", planHandler.MarkCompletion)
			planGroup.GET("/:id/completion", planHandler.GetCompletion)
		}

		// --- Standard Reason Routes ---
		reasonGroup := protected.Group("/reasons")
		{
			reasonGroup.POST("", RoleMiddleware(domain.RoleAdmin), reasonHandler.CreateReason)
			reasonGroup.GET("", reasonHandler.ListReasons)
			reasonGroup.GET("/:id", reasonHandler.GetReason)
			reasonGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin), reasonHandler.UpdateReason)
			reasonGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), reasonHandler.DeleteReason)
		}
	}
}
