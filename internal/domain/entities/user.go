package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin    UserRole = "Admin"
	UserRoleManager  UserRole = "Manager"
	UserRoleEmployee UserRole = "Employee"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleEmployee:
		return true
	}
	return false
}

// User represents a user entity. ManagerID is the user's direct manager;
// the chain of manager references forms a tree (cycles are rejected at
// write time).
type User struct {
	ID                uuid.UUID   `json:"id"`
	FullName          string      `json:"fullName"`
	Email             string      `json:"email"`
	PasswordHash      string      `json:"-"`
	Role              UserRole    `json:"role"`
	ManagerID         null.String `json:"managerId,omitempty"`
	IsManagerApprover bool        `json:"isManagerApprover"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	DeletedAt         *time.Time  `json:"-"`
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	FullName          string `json:"fullName" binding:"required,min=2,max=100"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	Role              string `json:"role" binding:"required"`
	ManagerID         string `json:"managerId"`
	IsManagerApprover bool   `json:"isManagerApprover"`
}

// UpdateUserInput represents input for updating a user
type UpdateUserInput struct {
	FullName          string `json:"fullName"`
	Role              string `json:"role"`
	ManagerID         string `json:"managerId"`
	IsManagerApprover *bool  `json:"isManagerApprover"`
}

// RegisterInput represents input for self-service registration
type RegisterInput struct {
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"` // If true, store tokens in Redis and return SessionID
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	RedirectPath string `json:"redirect"`
	User         *User  `json:"user"`
}
