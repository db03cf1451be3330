package user

import "context"

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	UpdateRole(ctx context.Context, req UpdateUserRoleRequest) (UserResponse, error)

	// EnsureAdmin creates an admin account for req unless the email is already taken.
	// It reports whether a user was created.
	EnsureAdmin(ctx context.Context, req CreateUserRequest) (bool, error)
}
