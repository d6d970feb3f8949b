package models

import "time"

// User is an account allowed to use the film chooser
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Name         string    `json:"name" db:"name"` // display name used in greetings
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
}

// SavedFilters is a user's remembered filter selection
type SavedFilters struct {
	UserID    int64           `json:"user_id" db:"user_id"`
	Selection FilterSelection `json:"selection" db:"selection_json"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
