package types

import (
	"github.com/pageza/recipeshare/internal/models"
)

// LoginRequest represents the request body for a password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RecipeFieldErrors is the 422 body of a rejected recipe submission
type RecipeFieldErrors struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
