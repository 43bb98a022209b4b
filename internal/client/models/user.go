package models

import "fmt"

// Role decides which screens and actions a user gets.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStaff        Role = "staff"
	RoleVeterinarian Role = "veterinarian"
	RoleSupplier     Role = "supplier"
)

var roles = map[Role]struct{}{
	RoleAdmin:        {},
	RoleStaff:        {},
	RoleVeterinarian: {},
	RoleSupplier:     {},
}

// ParseRole validates s against the known roles.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roles[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// CanReviewDocuments reports whether the role may approve or reject
// veterinary documents.
func (r Role) CanReviewDocuments() bool {
	return r == RoleVeterinarian || r == RoleStaff
}

// User is the authenticated account as returned by /auth/me/.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
