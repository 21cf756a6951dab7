package domain

import "time"

// Role enumerates access levels for accounts.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleOperator   Role = "operator"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleOperator:
		return true
	}
	return false
}

// CanEvaluate reports whether the role may author evaluations.
func (r Role) CanEvaluate() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// User is the domain model for operators, supervisors and administrators.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
