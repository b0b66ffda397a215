package api

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context key for the authenticated caller.
const ContextCallerKey = "caller"

// AuthMiddleware creates a Gin middleware for JWT authentication.
// On success the parsed domain.Caller is stored in the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if !token.Valid || claims.UserID == "" || !claims.Role.IsValid() {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		callerID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
			return
		}

		c.Set(ContextCallerKey, domain.Caller{ID: callerID, Role: claims.Role})
		c.Next()
	}
}

// RoleMiddleware checks that the caller has one of the allowed roles.
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := callerFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Caller not found in context")
			return
		}

		for _, role := range allowedRoles {
			if caller.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role '%s' does not have permission", caller.Role))
	}
}

func callerFromContext(c *gin.Context) (domain.Caller, error) {
	raw, exists := c.Get(ContextCallerKey)
	if !exists {
		return domain.Caller{}, errors.New("caller not found in context")
	}
	caller, ok := raw.(domain.Caller)
	if !ok {
		return domain.Caller{}, errors.New("invalid caller type in context")
	}
	return caller, nil
}

// Helper to return JSON error response and abort the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// intQuery parses an integer query parameter, falling back on def.
func intQuery(c *gin.Context, name string, def int) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// respondError maps service layer errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		validationErr   *service.ValidationError
		unauthorizedErr *service.UnauthorizedError
		forbiddenErr    *service.ForbiddenError
		notFoundErr     *service.NotFoundError
		conflictErr     *service.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		abortWithError(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &unauthorizedErr):
		abortWithError(c, http.StatusUnauthorized, unauthorizedErr.Error())
	case errors.As(err, &forbiddenErr):
		abortWithError(c, http.StatusForbidden, forbiddenErr.Error())
	case errors.As(err, &notFoundErr):
		abortWithError(c, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		abortWithError(c, http.StatusConflict, conflictErr.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
