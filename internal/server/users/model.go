package users

import "time"

type User struct {
	ID           string
	UserName     string
	FullName     string
	Role         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Roles known to the backend.
const (
	RoleAdmin        = "admin"
	RoleStaff        = "staff"
	RoleVeterinarian = "veterinarian"
	RoleSupplier     = "supplier"
)
