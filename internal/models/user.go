package models

import "time"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// User is an operator account. Any authenticated operator may run check-in,
// check-out and payments; admin is required for agency/tariff/user
// administration.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // "employee" or "admin"
	AgencyID     int       `json:"agency_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	AgencyID int    `json:"agency_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
