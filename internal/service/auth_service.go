package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/identity"
	"alcyxob/coaching-app/internal/notification"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthService authenticates callers against the identity gateway and issues
// tokens for the HTTP layer. The HS256 scheme is a placeholder.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *UserResponse, err error)
	ChangePassword(ctx context.Context, caller domain.Caller, oldPassword, newPassword string) error
	// ResetPassword replaces the user's credential with a fresh secret and
	// mails it. The mail send is fire-and-forget.
	ResetPassword(ctx context.Context, email string) error
	JWTSecret() string
}

type authService struct {
	userRepo      repository.UserRepository
	identities    identity.Manager
	mailer        notification.Mailer
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	identities identity.Manager,
	mailer notification.Mailer,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		identities:    identities,
		mailer:        mailer,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Login verifies credentials and returns a signed token plus the profile.
func (s *authService) Login(ctx context.Context, email, password string) (string, *UserResponse, error) {
	if email == "" || password == "" {
		return "", nil, &UnauthorizedError{Message: "email and password are required"}
	}

	id, err := s.identities.Verify(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			return "", nil, &UnauthorizedError{Message: "invalid email or password"}
		}
		return "", nil, &DatabaseError{Op: "credential verify", Err: err}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Identity without a profile row: treat as bad credentials.
			return "", nil, &UnauthorizedError{Message: "invalid email or password"}
		}
		return "", nil, &DatabaseError{Op: "profile lookup", Err: err}
	}
	if !user.IsActive {
		return "", nil, &UnauthorizedError{Message: "account is deactivated"}
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, &DatabaseError{Op: "token generation", Err: err}
	}
	return token, MapUserToResponse(user), nil
}

// ChangePassword verifies the old credential before storing the new one.
func (s *authService) ChangePassword(ctx context.Context, caller domain.Caller, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return &ValidationError{Field: "newPassword", Message: "must be at least 8 characters"}
	}

	user, err := s.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &UnauthorizedError{Message: "caller profile not found"}
		}
		return &DatabaseError{Op: "profile lookup", Err: err}
	}

	if _, err := s.identities.Verify(ctx, user.Email, oldPassword); err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			return &UnauthorizedError{Message: "current password is incorrect"}
		}
		return &DatabaseError{Op: "credential verify", Err: err}
	}

	if err := s.identities.SetPassword(ctx, caller.ID, newPassword); err != nil {
		return &DatabaseError{Op: "password update", Err: err}
	}
	return nil
}

// ResetPassword rotates the credential to a fresh secret and mails it.
// An unknown email is reported as success so addresses cannot be probed.
func (s *authService) ResetPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return &DatabaseError{Op: "user lookup", Err: err}
	}

	secret := uuid.NewString()
	if err := s.identities.SetPassword(ctx, user.ID, secret); err != nil {
		return &DatabaseError{Op: "password rotate", Err: err}
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.DisplayName(), secret); err != nil {
		slog.Warn("password reset mail failed", "userId", user.ID.Hex(), "error", err)
	}
	return nil
}

// JWTSecret exposes the signing secret for the HTTP middleware.
func (s *authService) JWTSecret() string {
	return s.jwtSecret
}

// --- JWT helper ---

// Claims is the token payload shared with the HTTP middleware.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "coaching-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
