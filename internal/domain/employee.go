// Package domain contains the core data types for the trasferte backend.
// This package has zero heavy dependencies and is imported by every other
// internal package (policy, repo, service, handler).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the permission level of an employee.
// Roles form a flat table, not a hierarchy — see the policy package.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string.
// Returns ErrValidation for unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Employee represents a registered user of the system.
// PasswordHash is the bcrypt hash of the password; it never leaves the
// repo/service layers (the handler response type omits it).
type Employee struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	WorkArea     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated identity performing an operation.
// It is resolved from the bearer token by the auth middleware and trusted
// as-is by the core.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
