package model

import (
	"fmt"
	"time"
)

// User is an account that can authenticate against the inventory API.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Roles, from most to least privileged.
const (
	RoleAdmin       = "admin"
	RoleManager     = "manager"
	RoleSupervisor  = "supervisor"
	RoleStockkeeper = "stockkeeper"
)

var roleLevels = map[string]int{
	RoleAdmin:       4,
	RoleManager:     3,
	RoleSupervisor:  2,
	RoleStockkeeper: 1,
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	level, ok := roleLevels[role]
	if !ok {
		return false
	}
	return level >= roleLevels[minimum] && roleLevels[minimum] > 0
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
