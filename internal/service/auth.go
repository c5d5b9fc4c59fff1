package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/growthboard/growthboard-go/internal/crypto"
	"github.com/growthboard/growthboard-go/internal/metrics"
	"github.com/growthboard/growthboard-go/internal/model"
	"github.com/growthboard/growthboard-go/internal/repository"
)

var (
	// ErrInvalidCredentials covers an unknown email; the message deliberately
	// does not reveal whether the account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWrongPassword covers a known email with a mismatched password.
	ErrWrongPassword = errors.New("invalid password")
)

// FieldErrors maps form field names to user-correctable error messages.
// The "_errors" key carries errors not tied to a single field.
type FieldErrors map[string][]string

// Add appends a message to a field's error list.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// AuthService handles registration and login business logic.
type AuthService struct {
	users     *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
	metrics   metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, secret string, expiry time.Duration, rec metrics.Recorder) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: secret,
		jwtExpiry: expiry,
		metrics:   rec,
	}
}

// Register validates the form, hashes the password and creates the user.
// Validation failures come back as field-scoped errors, not as an error value;
// the error return is reserved for storage failures. There is no auto-login.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (FieldErrors, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	password := strings.TrimSpace(req.Password)
	confirm := strings.TrimSpace(req.ConfirmPassword)

	errs := FieldErrors{}

	switch {
	case username == "":
		errs.Add("username", "Username is required")
	case utf8.RuneCountInString(username) < 3:
		errs.Add("username", "Username must be at least 3 characters long")
	case utf8.RuneCountInString(username) > 20:
		errs.Add("username", "Username must be at most 20 characters long")
	}

	validateEmail(errs, email)
	validatePassword(errs, password)

	if confirm == "" {
		errs.Add("confirmPassword", "Password confirmation is required")
	}

	if len(errs) > 0 {
		return errs, nil
	}

	if password != confirm {
		errs.Add("confirmPassword", "Passwords do not match")
		return errs, nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        "user",
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			errs.Add("email", "Email already registered")
			return errs, nil
		}
		return nil, err
	}

	s.metrics.RecordRegistration()
	return nil, nil
}

// Login validates the form, verifies the credentials and issues a session token.
// Shape problems come back as field errors; credential mismatches come back as
// ErrInvalidCredentials or ErrWrongPassword.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, FieldErrors, error) {
	email := strings.TrimSpace(req.Email)
	password := strings.TrimSpace(req.Password)

	errs := FieldErrors{}
	validateEmail(errs, email)
	validatePassword(errs, password)
	if len(errs) > 0 {
		return "", errs, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	match, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", nil, err
	}
	if !match {
		return "", nil, ErrWrongPassword
	}

	token, err := crypto.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return "", nil, err
	}

	s.metrics.RecordLogin()
	return token, nil, nil
}

// SessionFromToken returns the user identity carried by a session token, or
// nil for any missing, malformed or expired token.
func (s *AuthService) SessionFromToken(token string) *model.SessionUser {
	if token == "" {
		return nil
	}
	claims, err := crypto.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	return &model.SessionUser{ID: claims.UserID, Username: claims.Username}
}

func validateEmail(errs FieldErrors, email string) {
	switch {
	case email == "":
		errs.Add("email", "Email is required")
	case !isValidEmail(email):
		errs.Add("email", "Please enter a valid email address")
	}
}

func validatePassword(errs FieldErrors, password string) {
	switch {
	case password == "":
		errs.Add("password", "Password is required")
	case utf8.RuneCountInString(password) < 8:
		errs.Add("password", "Password must be at least 8 characters long")
	case utf8.RuneCountInString(password) > 20:
		errs.Add("password", "Password must be at most 20 characters long")
	}
}

// isValidEmail accepts plain addresses only, rejecting display names and
// anything net/mail has to rewrite to parse.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
