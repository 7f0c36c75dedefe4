package user

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies what surface of the platform a user belongs to.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleFinance Role = "FINANCE"
	RoleVendor  Role = "VENDOR"
)

// User represents a user in the system.
// @Description User information
// @Description with id, email, role, capabilities, first_name, last_name, created_at, and updated_at
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         Role      `json:"role"`
	Capabilities []string  `json:"capabilities,omitempty"` // named permissions, e.g. vendor.controlled.approve
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
