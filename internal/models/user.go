package models

// User is a registered account. Password holds whatever the configured
// hasher produced, never the raw secret unless the plaintext hasher is used.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
}

// RegisterRequest represents registration request payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse is the body of operations that only report an outcome
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse represents login response payload
type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
}
