package dto

import (
	"errors"
	"net/mail"
	"strings"
)

// bcrypt ignores input beyond 72 bytes; longer passwords are rejected
const maxPasswordBytes = 72

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"p"`
}

// Validate checks the registration payload
func (r *RegisterRequest) Validate() error {
	return validateCredentials(r.Email, r.Password)
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"p"`
}

// Validate checks the login payload
func (r *LoginRequest) Validate() error {
	return validateCredentials(r.Email, r.Password)
}

// LoginResponse carries the bearer token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("email and password are required")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(password) > maxPasswordBytes {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

// validateEmail accepts a bare address only, not "Name <addr>"
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email must be a valid address")
	}
	return nil
}
