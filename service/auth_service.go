package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafebackend/apperr"
	"cafebackend/logger"
	"cafebackend/models"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type AuthService struct {
	users    UserStore
	tokens   *Tokens
	log      *logger.Logger
	hashCost int
	now      func() time.Time
}

func NewAuthService(users UserStore, tokens *Tokens, log *logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		log:      log.WithComponent("auth_service"),
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *AuthService) Tokens() *Tokens {
	return s.tokens
}

// Login checks credentials and returns a signed token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", apperr.ErrValidation)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, apperr.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login rejected", "username", username)
		return "", nil, apperr.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("login", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

// Register creates an account. An empty role defaults to admin.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	role = strings.TrimSpace(role)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperr.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperr.ErrValidation, MinPasswordLength)
	}
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: role must be admin or user", apperr.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Username: username, PasswordHash: string(hash), Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: username %q is already taken", apperr.ErrConflict, username)
		}
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, p Principal) (*models.User, error) {
	return s.users.GetByID(ctx, p.UserID)
}

// EnsureAdmin creates an admin account with the given credentials unless
// the username already exists. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if _, err := s.users.FindByUsername(ctx, strings.TrimSpace(username)); err == nil {
		return false, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	if _, err := s.Register(ctx, username, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
