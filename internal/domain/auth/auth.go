package auth

import (
	"strings"

	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/validation"
)

// User is the signed-in console user.
type User struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"`
}

// LoginCredentials are posted to /auth/login.
type LoginCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginData is the data of a successful login.
type LoginData struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// RegisterUser is the user part of a registration.
type RegisterUser struct {
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=100"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,register_phone"`
	Address  string `json:"address,omitempty" validate:"omitempty,max=100"`
}

// RegisterCredentials registers a corporate together with its first user.
type RegisterCredentials struct {
	Corporate corporate.RegisterPayload `json:"corporate"`
	User      RegisterUser              `json:"user"`
}

// RegisteredUser is the user part of a registration response.
type RegisteredUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// RegisterData is the data of a successful registration.
type RegisterData struct {
	Corporate corporate.Registered `json:"corporate"`
	User      RegisteredUser       `json:"user"`
}

func (c *LoginCredentials) Normalize() {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

func (c LoginCredentials) Validate() error { return validation.Struct(c) }

func (c RegisterCredentials) Validate() error { return validation.Struct(c) }
