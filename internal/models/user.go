package models

import (
	"time"
)

// Account roles
const (
	RoleFarmer = "farmer" // default role assigned on registration
	RoleAdmin  = "admin"  // may list accounts and reset any password
)

// User represents an account record in the credential store
type User struct {
	ID           string    `json:"id" db:"id"`                       // Store-assigned identifier
	Username     string    `json:"username,omitempty" db:"username"` // Display name, relational variant only
	Email        string    `json:"email" db:"email"`                 // Unique email
	PasswordHash string    `json:"-" db:"password"`                  // bcrypt hash, never serialized
	Role         string    `json:"role" db:"role"`                   // farmer or admin
	CreatedAt    time.Time `json:"created_at" db:"created_at"`       // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`       // Last update timestamp
}
