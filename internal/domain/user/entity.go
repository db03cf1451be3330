package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Full access including user and settings management
	RoleManager Role = "manager" // Marks attendance and views payroll
	RoleStaff   Role = "staff"   // Read-only attendance access
)

var Roles = []string{string(RoleAdmin), string(RoleManager), string(RoleStaff)}

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}
