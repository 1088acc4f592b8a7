package models

// RegisterRequest represents the JSON body for account registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Email
	// required: true
	// example: farmer@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// MessageResponse represents a plain message response
// swagger:model MessageResponse
type MessageResponse struct {
	// Message
	// example: User registered
	Message string `json:"message"`
}
