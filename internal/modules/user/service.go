package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
}

// RegisterUserRequest is the payload for creating a new user.
type RegisterUserRequest struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	Role         string   `json:"role,omitempty"`         // defaults to VENDOR
	Capabilities []string `json:"capabilities,omitempty"` // admin-granted permissions
}
