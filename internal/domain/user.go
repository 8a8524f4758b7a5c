package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AuthProviderPassword = "password"
	AuthProviderFirebase = "firebase"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password,omitempty"`
	Active       bool      `json:"active"`
	RoleID       int       `json:"role_id"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID     int     `json:"id"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Active *bool   `json:"active"`
	RoleID *int    `json:"role_id"`
}

type Claims struct {
	UserID     int
	UserName   string
	UserEmail  string
	UserActive bool
	UserRoleID int
	jwt.RegisteredClaims
}

// OwnerKey é a identidade usada para isolar clientes e serviços de cada usuário
func (c *Claims) OwnerKey() string {
	return c.UserEmail
}

type BootstrapStatus struct {
	HasUsers bool `json:"has_users"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
