package types

import "time"

// User represents the core user entity in the domain.
type User struct {
	ID           string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username     string    `json:"username" example:"johndoe"`                        // Unique username.
	Email        string    `json:"email" example:"john.doe@example.com"`              // Unique email address.
	FullName     *string   `json:"full_name,omitempty"`                               // Optional display name.
	PasswordHash string    `json:"-"`                                                 // Hashed password (never exposed).
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserParams carries the fields accepted when registering a new user.
// Password arrives in plaintext and is hashed before it reaches the store.
type CreateUserParams struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}
