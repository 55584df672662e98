package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/qraftyhq/api/internal/auth"
	serverError "github.com/qraftyhq/api/internal/error"
	"github.com/qraftyhq/api/internal/id"
	serverJSON "github.com/qraftyhq/api/internal/json"
	"github.com/qraftyhq/api/internal/store"
)

// handleHealth godoc
// @Summary      Health check
// @Description  Returns API health status
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = serverJSON.RespondJSON(w, http.StatusOK, map[string]any{
		"ok":                      true,
		"google_oauth_configured": s.cfg.Auth.Google.ClientID != "" && s.cfg.Auth.Google.ClientSecret != "",
	})
}

// --- Signup ---

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	User *userResponse `json:"user"`
}

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`
}

func toUserResponse(u *store.User) *userResponse {
	return &userResponse{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
	}
}

// handleSignup godoc
// @Summary      Sign up
// @Description  Create a new account with email and password and return a session cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      signupRequest  true  "Signup details"
// @Success      201      {object}  authResponse
// @Failure      400      {object}  error.ErrorResponse
// @Failure      409      {object}  error.ErrorResponse
// @Failure      500      {object}  error.ErrorResponse
// @Router       /auth/signup [post]
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := serverJSON.DecodeJSON(r.Context(), r, &req); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, err)
		return
	}

	if req.Email == "" || req.Password == "" {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("email and password are required"))
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("invalid email format"))
		return
	}

	if len(req.Password) < 8 {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("password must be at least 8 characters"))
		return
	}

	if len(req.Password) > 72 {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("password must be at most 72 characters"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to hash password"))
		return
	}

	userID, err := id.Generate("USR-")
	if err != nil {
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to generate user ID"))
		return
	}

	user := &store.User{
		ID:           userID,
		Email:        req.Email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			serverError.RespondError(w, http.StatusConflict, fmt.Errorf("email already registered"))
			return
		}
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to create user"))
		return
	}

	rawToken, _, err := auth.CreateSession(r.Context(), s.store, user.ID, r.RemoteAddr, r.UserAgent(), s.cfg.Auth.SessionTTL)
	if err != nil {
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to create session"))
		return
	}

	auth.SetSessionCookie(w, rawToken, s.cfg.Auth.SessionTTL, s.cfg.Auth.SecureCookies)

	s.telemetry.Track(user.ID, "user_signed_up", map[string]any{"provider": "password"})

	_ = serverJSON.RespondJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user)})
}

// --- Login ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin godoc
// @Summary      Log in
// @Description  Authenticate with email and password, returns a session cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      loginRequest  true  "Login credentials"
// @Success      200      {object}  authResponse
// @Failure      400      {object}  error.ErrorResponse
// @Failure      401      {object}  error.ErrorResponse
// @Failure      500      {object}  error.ErrorResponse
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := serverJSON.DecodeJSON(r.Context(), r, &req); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, err)
		return
	}

	if req.Email == "" || req.Password == "" {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("email and password are required"))
		return
	}

	if len(req.Password) > 72 {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("password too long (max 72 characters)"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			serverError.RespondError(w, http.StatusUnauthorized, fmt.Errorf("invalid email or password"))
			return
		}
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to look up user"))
		return
	}

	if user.PasswordHash == "" {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("this account uses Google sign-in"))
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		serverError.RespondError(w, http.StatusUnauthorized, fmt.Errorf("invalid email or password"))
		return
	}

	rawToken, _, err := auth.CreateSession(r.Context(), s.store, user.ID, r.RemoteAddr, r.UserAgent(), s.cfg.Auth.SessionTTL)
	if err != nil {
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to create session"))
		return
	}

	auth.SetSessionCookie(w, rawToken, s.cfg.Auth.SessionTTL, s.cfg.Auth.SecureCookies)

	s.telemetry.Track(user.ID, "user_logged_in", map[string]any{"provider": "password"})

	_ = serverJSON.RespondJSON(w, http.StatusOK, authResponse{User: toUserResponse(user)})
}

// --- Me ---

// handleMe godoc
// @Summary      Get current user
// @Description  Return the authenticated user or user=null for anonymous callers
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /auth/me [get]
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	// Session state must never be cached by intermediaries.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	user := auth.ResolveUser(r, s.store)
	if user == nil {
		_ = serverJSON.RespondJSON(w, http.StatusOK, authResponse{User: nil})
		return
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, authResponse{User: toUserResponse(user)})
}

// --- Logout ---

// handleLogout godoc
// @Summary      Log out
// @Description  Invalidate the current session and clear the session cookie
// @Tags         Auth
// @Success      204  "Logged out"
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.SessionCookieName)
	if err == nil && cookie.Value != "" {
		_ = s.store.DeleteSession(r.Context(), auth.HashSessionToken(cookie.Value))
	}
	auth.ClearSessionCookie(w, s.cfg.Auth.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}
