package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/h-shvedko/sociallyhub-sub010/internal/auth"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AuthService struct {
	tokens *auth.TokenManager

	users repository.UserRepository
}

func NewAuthService(tokens *auth.TokenManager) *AuthService {
	return &AuthService{tokens: tokens}
}

func (a *AuthService) Register(ctx context.Context, email, name, password string) (*model.User, *Error) {
	l := logger.FromContext(ctx)

	hash, err := auth.HashPassword(password)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to register user")
	}

	user := &repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}

	err = a.users.Create(ctx, user)
	if errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("email already registered", zap.String("email", email))
		return nil, NewServiceError(ErrorCodeEmailExists, "email already registered")
	}
	if err != nil {
		l.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to register user")
	}

	return &model.User{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		IsActive: user.IsActive,
		IsAdmin:  user.IsAdmin,
	}, nil
}

// Login verifies credentials and returns a session token. The token role
// follows the is_admin flag.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, *Error) {
	l := logger.FromContext(ctx)

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, NewServiceError(ErrorCodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		l.Error("failed to look up user", zap.String("email", email), zap.Error(err))
		return "", nil, NewServiceError(ErrorCodeUnspecified, "failed to log in")
	}

	if err = auth.CheckPassword(user.PasswordHash, password); err != nil {
		l.Warn("wrong password", zap.String("email", email))
		return "", nil, NewServiceError(ErrorCodeUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		l.Warn("inactive user attempted login", zap.String("email", email))
		return "", nil, NewServiceError(ErrorCodeUserInactive, "user is deactivated")
	}

	role := auth.TokenRoleMember
	if user.IsAdmin {
		role = auth.TokenRoleAdmin
	}

	token, err := a.tokens.Generate(user.ID, role)
	if err != nil {
		l.Error("failed to sign token", zap.Error(err))
		return "", nil, NewServiceError(ErrorCodeUnspecified, "failed to log in")
	}

	return token, &model.User{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		IsActive: user.IsActive,
		IsAdmin:  user.IsAdmin,
	}, nil
}

func (a *AuthService) WithUserRepo(r repository.UserRepository) *AuthService {
	a.users = r
	return a
}
