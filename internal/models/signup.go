package models

// SignupRequest represents the JSON body for relational signup
// swagger:model SignupRequest
type SignupRequest struct {
	// Username
	// example: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// ForgotRequest represents the JSON body for a password reset
// swagger:model ForgotRequest
type ForgotRequest struct {
	// Email of the account to reset
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// New password
	// required: true
	// example: newsecret456
	NewPassword string `json:"newPassword"`
}
