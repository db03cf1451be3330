package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shinelab/detailing-ops/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepository}
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrUserEmailExists
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		ID:           id.String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hashed,
		Role:         user.Role(req.Role),
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", created.ID, "role", created.Role)
	return user.ToUserResponse(created), nil
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.ToUserResponse(u))
	}
	return resp, nil
}

// UpdateRole implements user.UserService.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, req user.UpdateUserRoleRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if _, claims, err := jwtauth.FromContext(ctx); err == nil {
		if callerID, _ := claims["user_id"].(string); callerID == req.UserID {
			return user.UserResponse{}, user.ErrCannotChangeOwnRole
		}
	}

	updated, err := s.UserRepository.UpdateRole(ctx, req.UserID, user.Role(req.Role))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to update role: %w", err)
	}

	slog.Info("user role updated", "user_id", updated.ID, "role", updated.Role)
	return user.ToUserResponse(updated), nil
}

// EnsureAdmin implements user.UserService.
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, req user.CreateUserRequest) (bool, error) {
	req.Role = string(user.RoleAdmin)
	_, err := s.CreateUser(ctx, req)
	if errors.Is(err, user.ErrUserEmailExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
