package service

import (
	"context"
	"errors"
	"time"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/pkg/jwt"
	"go-catalog-admin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

// DefaultIdleTimeout ends a session that has not sent a heartbeat for this long.
const DefaultIdleTimeout = model.PresenceWindow

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo    repository.UserRepository
	pub         events.Publisher
	idleTimeout time.Duration
}

func NewAuthService(userRepo repository.UserRepository, pub events.Publisher) AuthService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &authService{
		userRepo:    userRepo,
		pub:         pub,
		idleTimeout: DefaultIdleTimeout,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Get role code
	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// 5. Single session: a new token version logs out every other device
	now := time.Now()
	user.TokenVersion = uuid.NewString()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		logger.FromContext(ctx).Error("save session failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, errors.New("failed to update session")
	}

	// 6. Generate JWT token with TokenVersion
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, user.PrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	logger.FromContext(ctx).Info("user logged in", zap.String("user_id", user.ID.String()))
	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

// ResetPassword changes the password and ends every open session.
func (s *authService) ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}
	// 2. Verify old password
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	// 3. Set new password
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	// 4. Invalidate existing sessions and save
	user.TokenVersion = uuid.NewString()
	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT token
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	// 3. Check if user is still active
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	// 4. Check against DB for strict session (TokenVersion)
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	// 5. Check inactivity; a missing LastSeenAt means the user never logged in
	if user.LastSeenAt == nil || time.Since(*user.LastSeenAt) > s.idleTimeout {
		return nil, ErrSessionTimeout
	}

	// 6. Return user info with role and privileges
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

// Heartbeat marks the user online and tells the other admin screens.
func (s *authService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	ev := events.Event{
		Type:   "user_status_update",
		Action: "online",
		Data:   map[string]interface{}{"user_id": userID.String(), "last_seen_at": time.Now()},
		At:     time.Now().UTC(),
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("publish presence failed", zap.Error(err))
	}
	return nil
}
