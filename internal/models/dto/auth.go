package dto

import (
	"time"

	"github.com/hongminglow/learnhub-be/internal/models"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// PublicUser is the subset of a user returned at login.
type PublicUser struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone"`
}

// LoginResponse carries the session token and the user it belongs to.
type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type MeResponse struct {
	User RegisterResponse `json:"user"`
}

// NewRegisterResponse strips the password hash from user.
func NewRegisterResponse(user models.User) RegisterResponse {
	return RegisterResponse{ID: user.ID, Phone: user.Phone, CreatedAt: user.CreatedAt}
}
