package models

// LoginRequest represents the JSON body for login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// example: farmer@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// LoginUser is the public part of an account returned on login
// swagger:model LoginUser
type LoginUser struct {
	// Account identifier
	// example: 66f1c2a9e4b0a1b2c3d4e5f6
	ID string `json:"id"`

	// Email
	// example: farmer@example.com
	Email string `json:"email"`

	// Role
	// example: farmer
	Role string `json:"role"`
}

// LoginResponse represents a successful login on the document-store gateway
// swagger:model LoginResponse
type LoginResponse struct {
	// Authenticated account
	User LoginUser `json:"user"`

	// Bearer token for protected routes
	// example: JWT_TOKEN
	Token string `json:"token"`
}

// SignInResponse represents a successful login on the relational gateway
// swagger:model SignInResponse
type SignInResponse struct {
	// Account identifier
	// example: 1
	ID string `json:"id"`

	// Username
	// example: john_doe
	Username string `json:"username"`

	// Email
	// example: john@example.com
	Email string `json:"email"`

	// Role
	// example: farmer
	Role string `json:"role"`

	// Bearer token for protected routes
	// example: JWT_TOKEN
	Token string `json:"token"`
}
