package handler

import (
	"errors"
	"net/http"

	"github.com/growthboard/growthboard-go/internal/middleware"
	"github.com/growthboard/growthboard-go/internal/model"
	"github.com/growthboard/growthboard-go/internal/service"
)

const sessionMaxAge = 86400 // seconds; matches the 24h token expiry

// AuthHandler handles HTTP requests for registration, login and sessions.
type AuthHandler struct {
	service      *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler. cookieSecure should be true in
// production-designated environments.
func NewAuthHandler(svc *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: svc, cookieSecure: cookieSecure}
}

// formErrorResponse mirrors the register/login failure payload: the submitted
// non-secret fields plus field-scoped errors.
type formErrorResponse struct {
	Data   map[string]string   `json:"data"`
	Errors service.FieldErrors `json:"errors"`
}

// HandleRegister handles POST /register form submissions.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid form data"))
		return
	}

	req := model.RegisterRequest{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm-password"),
	}

	fieldErrs, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, formErrorResponse{
			Data:   map[string]string{"username": req.Username, "email": req.Email},
			Errors: service.FieldErrors{"_errors": {"Registration failed. Please try again."}},
		})
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, formErrorResponse{
			Data:   map[string]string{"username": req.Username, "email": req.Email},
			Errors: fieldErrs,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleLogin handles POST /login form submissions. On success it sets the
// session cookie and redirects to /.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid form data"))
		return
	}

	req := model.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	data := map[string]string{"email": req.Email}

	token, fieldErrs, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, formErrorResponse{
				Data:   data,
				Errors: service.FieldErrors{"_errors": {"Invalid email or password!"}},
			})
		case errors.Is(err, service.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, formErrorResponse{
				Data:   data,
				Errors: service.FieldErrors{"password": {"Invalid password!"}},
			})
		default:
			writeJSON(w, http.StatusInternalServerError, formErrorResponse{
				Data:   data,
				Errors: service.FieldErrors{"_errors": {"An unexpected error occurred. Please try again later."}},
			})
		}
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, formErrorResponse{Data: data, Errors: fieldErrs})
		return
	}

	http.SetCookie(w, h.sessionCookie(token, sessionMaxAge))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout handles GET /logout. Clearing an absent or invalid cookie is a
// no-op; no token verification happens here.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleSession handles GET /api/session, reporting the current user or null.
// An absent or invalid token is an anonymous session, never an error.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	user := h.service.SessionFromToken(middleware.TokenFromRequest(r))
	writeJSON(w, http.StatusOK, map[string]*model.SessionUser{"user": user})
}

func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
}
