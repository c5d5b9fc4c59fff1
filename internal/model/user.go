package model

// User represents a user in the database.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        string
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Email    string
	Password string
}

// SessionUser represents the identity carried by a session token,
// safe for API responses.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
