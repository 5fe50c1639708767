package auth

import (
	"time"

	"go-leave/internal/user"
)

type RegisterRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Department string `json:"department" binding:"omitempty,max=100"`
	Role       string `json:"role" binding:"omitempty,oneof=employee manager"`
	ManagerID  string `json:"manager_id" binding:"omitempty,uuid"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminRequest provisions an admin account outside the HTTP surface.
type AdminRequest struct {
	Name       string
	Email      string
	Password   string
	Department string
}

type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresAt   time.Time         `json:"expires_at"`
	User        user.UserResponse `json:"user"`
}
