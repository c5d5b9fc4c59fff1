package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/growthboard/growthboard-go/internal/crypto"
	"github.com/growthboard/growthboard-go/internal/metrics"
	"github.com/growthboard/growthboard-go/internal/model"
	"github.com/growthboard/growthboard-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := repository.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour, metrics.Noop{})
}

func validRegisterRequest() model.RegisterRequest {
	return model.RegisterRequest{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.RegisterRequest)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing username",
			mutate:    func(r *model.RegisterRequest) { r.Username = "" },
			wantField: "username",
			wantMsg:   "Username is required",
		},
		{
			name:      "username too short",
			mutate:    func(r *model.RegisterRequest) { r.Username = "al" },
			wantField: "username",
			wantMsg:   "Username must be at least 3 characters long",
		},
		{
			name:      "username too long",
			mutate:    func(r *model.RegisterRequest) { r.Username = strings.Repeat("a", 21) },
			wantField: "username",
			wantMsg:   "Username must be at most 20 characters long",
		},
		{
			name:      "whitespace-only username",
			mutate:    func(r *model.RegisterRequest) { r.Username = "   " },
			wantField: "username",
			wantMsg:   "Username is required",
		},
		{
			name:      "missing email",
			mutate:    func(r *model.RegisterRequest) { r.Email = "" },
			wantField: "email",
			wantMsg:   "Email is required",
		},
		{
			name:      "malformed email",
			mutate:    func(r *model.RegisterRequest) { r.Email = "not-an-email" },
			wantField: "email",
			wantMsg:   "Please enter a valid email address",
		},
		{
			name:      "missing password",
			mutate:    func(r *model.RegisterRequest) { r.Password = "" },
			wantField: "password",
			wantMsg:   "Password is required",
		},
		{
			name:      "password too short",
			mutate:    func(r *model.RegisterRequest) { r.Password = "short" },
			wantField: "password",
			wantMsg:   "Password must be at least 8 characters long",
		},
		{
			name:      "password too long",
			mutate:    func(r *model.RegisterRequest) { r.Password = strings.Repeat("p", 21) },
			wantField: "password",
			wantMsg:   "Password must be at most 20 characters long",
		},
		{
			name:      "missing confirmation",
			mutate:    func(r *model.RegisterRequest) { r.ConfirmPassword = "" },
			wantField: "confirmPassword",
			wantMsg:   "Password confirmation is required",
		},
		{
			name:      "confirmation mismatch",
			mutate:    func(r *model.RegisterRequest) { r.ConfirmPassword = "password2" },
			wantField: "confirmPassword",
			wantMsg:   "Passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(t)

			req := validRegisterRequest()
			tt.mutate(&req)

			errs, err := svc.Register(context.Background(), req)
			require.NoError(t, err)
			require.Contains(t, errs, tt.wantField)
			assert.Contains(t, errs[tt.wantField], tt.wantMsg)
		})
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	errs, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)
	require.Empty(t, errs)

	token, errs, err := svc.Login(ctx, model.LoginRequest{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NotEmpty(t, token)

	claims, err := crypto.ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.NotZero(t, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	errs, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)
	require.Empty(t, errs)

	// Same email, different username and password.
	second := model.RegisterRequest{
		Username:        "bob",
		Email:           "a@x.com",
		Password:        "otherpass",
		ConfirmPassword: "otherpass",
	}
	errs, err = svc.Register(ctx, second)
	require.NoError(t, err)
	require.Contains(t, errs, "email")
	assert.Contains(t, errs["email"], "Email already registered")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, errs, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@x.com",
		Password: "password1",
	})
	assert.Empty(t, errs)
	// The error must not reveal whether the account exists.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	_, errs, err := svc.Login(ctx, model.LoginRequest{Email: "a@x.com", Password: "password2"})
	assert.Empty(t, errs)
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLoginValidation(t *testing.T) {
	svc := newTestAuthService(t)

	_, errs, err := svc.Login(context.Background(), model.LoginRequest{Email: "bad", Password: "short"})
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestSessionFromToken(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := crypto.GenerateToken(7, "alice", testSecret, time.Hour)
	require.NoError(t, err)

	user := svc.SessionFromToken(token)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)

	assert.Nil(t, svc.SessionFromToken(""))
	assert.Nil(t, svc.SessionFromToken("garbage"))
}
