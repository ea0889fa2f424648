package domain

import "time"

type UserRole string

const (
	RoleRep   UserRole = "rep"
	RoleAdmin UserRole = "admin"
)

// User is a sales representative account for the API surface.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Nombre       string    `json:"nombre"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
