// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/todo/internal/config"
	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/repository"
	"github.com/gurkanbulca/todo/pkg/auth"
	"github.com/gurkanbulca/todo/pkg/security"
)

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords and bad refresh tokens alike
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden is returned when a non-admin asks for an admin resource
	ErrForbidden = errors.New("insufficient permissions")
)

// RegisterInput holds the fields of a new account
type RegisterInput struct {
	Username string
	Password string
	Name     string
}

// UserSummary is one row of the admin user list
type UserSummary struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Tasks     Stats     `json:"tasks"`
}

type AuthService struct {
	users           repository.UserRepository
	workspace       *Workspace
	tokenManager    *auth.TokenManager
	passwordManager *auth.PasswordManager
	securityLogger  *SecurityLogger
	admins          map[string]bool
}

// NewAuthService creates a new authentication service with configurable security settings
func NewAuthService(
	users repository.UserRepository,
	workspace *Workspace,
	tokenManager *auth.TokenManager,
	securityLogger *SecurityLogger,
	securityConfig config.SecurityConfig,
	passwordPolicy auth.PasswordPolicy,
) *AuthService {
	admins := make(map[string]bool, len(securityConfig.AdminUsernames))
	for _, name := range securityConfig.AdminUsernames {
		admins[strings.ToLower(name)] = true
	}

	return &AuthService{
		users:           users,
		workspace:       workspace,
		tokenManager:    tokenManager,
		passwordManager: auth.NewPasswordManager(passwordPolicy, securityConfig.BcryptCost),
		securityLogger:  securityLogger,
		admins:          admins,
	}
}

// Register creates an account. Usernames listed as admins get the admin role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if err := auth.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	hash, err := s.passwordManager.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleUser
	if s.admins[username] {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.securityLogger.LogRegistered(ctx, username)
	log.Printf("[INFO] Registered user %s (role: %s)", username, role)
	return user, nil
}

// Login checks the credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, auth.TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.securityLogger.LogLoginFailed(ctx, username, "unknown user")
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, fmt.Errorf("get user: %w", err)
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, password); err != nil {
		s.securityLogger.LogLoginFailed(ctx, username, "wrong password")
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokenManager.GenerateTokenPair(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("generate tokens: %w", err)
	}

	s.securityLogger.LogLoginSuccess(ctx, username)
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	accessToken, expiresIn, err := s.tokenManager.RefreshAccessToken(refreshToken)
	if err != nil {
		s.securityLogger.LogTokenRejected(ctx, err.Error())
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	if claims, err := s.tokenManager.ValidateAccessToken(accessToken); err == nil {
		s.securityLogger.LogTokenRefreshed(ctx, claims.Username)
	}
	return accessToken, expiresIn, nil
}

// ListUsers returns every account with its task counts. Only admins may call it.
func (s *AuthService) ListUsers(ctx context.Context, caller string) ([]UserSummary, error) {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summary := UserSummary{
			Username:  u.Username,
			Name:      u.Name,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		}
		if manager, err := s.workspace.Manager(ctx, u.Username); err != nil {
			log.Printf("[WARN] Could not load tasks of %s: %v", u.Username, err)
		} else {
			summary.Tasks = manager.Stats()
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// RecentSecurityEvents returns the latest account events. Only admins may call it.
func (s *AuthService) RecentSecurityEvents(ctx context.Context, caller string, limit int) ([]security.Event, error) {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	return s.securityLogger.Recent(limit), nil
}

// RequireAdmin checks the stored role of caller, not the role claimed by its token
func (s *AuthService) RequireAdmin(ctx context.Context, caller string) error {
	user, err := s.users.GetByUsername(ctx, caller)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.securityLogger.LogAdminAccessDenied(ctx, caller, "admin area")
			return ErrForbidden
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !user.IsAdmin() {
		s.securityLogger.LogAdminAccessDenied(ctx, caller, "admin area")
		return ErrForbidden
	}
	return nil
}
