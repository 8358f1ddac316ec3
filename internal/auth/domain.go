package auth

import (
	"time"

	"github.com/orderdesk/orderdesk/internal/rbac"
)

// User represents a back-office user account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         rbac.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
