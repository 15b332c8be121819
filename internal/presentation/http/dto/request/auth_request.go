package request

import "github.com/erpdesk/erpdesk-api/internal/domain/enum"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest represents a profile update by the signed-in user
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,max=100"`
}

// CreateUserRequest represents an admin creating an operator account
type CreateUserRequest struct {
	FirstName string    `json:"first_name" binding:"required,max=100"`
	LastName  string    `json:"last_name" binding:"omitempty,max=100"`
	Email     string    `json:"email" binding:"required,email"`
	Password  string    `json:"password" binding:"required,min=8"`
	Role      enum.Role `json:"role"`
}

// UpdateUserRequest represents an admin changing a user's role or status
type UpdateUserRequest struct {
	Role   *enum.Role `json:"role"`
	Active *bool      `json:"active"`
}
