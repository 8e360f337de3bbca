package models

import "time"

// SignupRequest registers a dashboard user.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by signup and login. Token is only set on login.
type AuthResponse struct {
	Message   string `json:"message"`
	UserEmail string `json:"user_email"`
	Token     string `json:"token,omitempty"`
}

// User is an account allowed to read the sales dashboard.
type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	HashedPassword []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
