package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/osgirl/groupbuyer/internal/apperr"
	"github.com/osgirl/groupbuyer/internal/auth"
	"github.com/osgirl/groupbuyer/internal/models"
)

// AuthService handles registration and login, translating authenticator
// failures into the shared error taxonomy.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Session is the result of a successful register or login.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// UserProfile is the API-safe projection of a user account.
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Admin       bool   `json:"admin"`
}

func profileOf(user *models.User) *UserProfile {
	return &UserProfile{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Admin:       user.Admin,
	}
}

// Register creates a new account and returns a fresh session.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*Session, error) {
	slog.Info("Register request", "email", email)

	if email == "" {
		return nil, apperr.Validation("email", "required")
	}
	if displayName == "" {
		return nil, apperr.Validation("displayName", "required")
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, apperr.Validation("password", err.Error())
		}
		return nil, apperr.Unexpected(err)
	}

	return s.sessionFor(user)
}

// Login verifies credentials and returns a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	slog.Info("Login request", "email", email)

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, apperr.ErrNotAuthorized
	}

	return s.sessionFor(user)
}

func (s *AuthService) sessionFor(user *models.User) (*Session, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &Session{Token: token, User: profileOf(user)}, nil
}
