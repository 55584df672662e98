package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/qraftyhq/api/internal/auth"
	"github.com/qraftyhq/api/internal/id"
	"github.com/qraftyhq/api/internal/store"
)

var oauthHTTPClient = &http.Client{Timeout: 10 * time.Second}

// Error codes surfaced to the frontend as /login?error=<code>. Each
// callback failure maps to exactly one of these.
const (
	oauthErrNotConfigured      = "google_not_configured"
	oauthErrStateMismatch      = "google_state_mismatch"
	oauthErrTokenExchange      = "google_token_exchange_failed"
	oauthErrMissingAccessToken = "google_missing_access_token"
	oauthErrUserinfoFailed     = "google_userinfo_failed"
	oauthErrProfileIncomplete  = "google_profile_incomplete"
	oauthErrUnknown            = "google_unknown"
)

func (s *Server) googleConfigured() bool {
	return s.cfg.Auth.Google.ClientID != "" && s.cfg.Auth.Google.ClientSecret != ""
}

func (s *Server) googleOAuthConfig(redirectURL string) *oauth2.Config {
	cfg := auth.GoogleOAuthConfig(s.cfg.Auth.Google.ClientID, s.cfg.Auth.Google.ClientSecret, redirectURL)
	cfg.Endpoint = s.googleEndpoint
	return cfg
}

// handleGoogleStart godoc
// @Summary      Start Google sign-in
// @Description  Record the OAuth transaction in short-lived cookies and redirect to Google
// @Tags         Auth
// @Param        next  query  string  false  "Path to land on after login"
// @Success      302  "Redirect to Google"
// @Router       /auth/google/start [get]
func (s *Server) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	origin := auth.ResolveOrigin(r, s.cfg.Web.Origin)

	if !s.googleConfigured() {
		s.redirectLoginError(w, r, origin, oauthErrNotConfigured, nil)
		return
	}

	state, err := auth.GenerateOAuthState()
	if err != nil {
		s.redirectLoginError(w, r, origin, oauthErrUnknown, err)
		return
	}

	redirectURL := auth.ResolveRedirectURL(r, s.cfg.Auth.Google.RedirectURL, s.cfg.IsProduction())
	next := auth.SafeNextPath(r.URL.Query().Get("next"))

	auth.SetOAuthTransactionCookies(w, state, origin, redirectURL, next, s.cfg.Auth.SecureCookies)

	// Always show the account chooser, even when Google has a single
	// signed-in session; silently reusing it links the wrong account.
	authURL := s.googleOAuthConfig(redirectURL).AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleGoogleCallback godoc
// @Summary      Google sign-in callback
// @Description  Validate state, exchange the code, link or create the user, set a session cookie, and redirect back to the frontend
// @Tags         Auth
// @Param        code   query  string  true  "OAuth authorization code"
// @Param        state  query  string  true  "OAuth CSRF state parameter"
// @Success      302  "Redirect to frontend"
// @Router       /auth/google/callback [get]
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	// The origin cookie is client-held state; re-validate it instead of
	// trusting it verbatim.
	origin := auth.SafeOrigin(cookieValue(r, auth.OAuthOriginCookieName, ""), s.cfg.Web.Origin)
	redirectURL := cookieValue(r, auth.OAuthRedirectURLCookieName, s.cfg.Auth.Google.RedirectURL)
	next := auth.SafeNextPath(cookieValue(r, auth.OAuthNextCookieName, ""))

	if !s.googleConfigured() {
		auth.ClearOAuthTransactionCookies(w)
		s.redirectLoginError(w, r, origin, oauthErrNotConfigured, nil)
		return
	}

	// Both state and code must be present before anything is exchanged; a
	// callback missing either is a malformed or tampered transaction.
	code := r.URL.Query().Get("code")
	if err := auth.ValidateOAuthState(r); err != nil {
		auth.ClearOAuthTransactionCookies(w)
		s.redirectLoginError(w, r, origin, oauthErrStateMismatch, err)
		return
	}
	if code == "" {
		auth.ClearOAuthTransactionCookies(w)
		s.redirectLoginError(w, r, origin, oauthErrStateMismatch, fmt.Errorf("missing code parameter"))
		return
	}

	// The state is single-use: drop every transaction cookie before the
	// exchange so a replayed callback can never pass validation again.
	auth.ClearOAuthTransactionCookies(w)

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, oauthHTTPClient)
	token, err := s.googleOAuthConfig(redirectURL).Exchange(ctx, code)
	if err != nil {
		s.redirectLoginError(w, r, origin, oauthErrTokenExchange, err)
		return
	}
	if token.AccessToken == "" {
		s.redirectLoginError(w, r, origin, oauthErrMissingAccessToken, nil)
		return
	}

	gUser, err := s.fetchGoogleUser(r.Context(), token.AccessToken)
	if err != nil {
		s.redirectLoginError(w, r, origin, oauthErrUserinfoFailed, err)
		return
	}
	if gUser.Sub == "" || gUser.Email == "" {
		s.redirectLoginError(w, r, origin, oauthErrProfileIncomplete, nil)
		return
	}

	user, err := s.linkGoogleUser(r.Context(), gUser.Sub, gUser.Email, gUser.Name, gUser.EmailVerified)
	if err != nil {
		s.redirectLoginError(w, r, origin, oauthErrUnknown, err)
		return
	}

	rawToken, _, err := auth.CreateSession(r.Context(), s.store, user.ID, r.RemoteAddr, r.UserAgent(), s.cfg.Auth.SessionTTL)
	if err != nil {
		s.redirectLoginError(w, r, origin, oauthErrUnknown, err)
		return
	}

	auth.SetSessionCookie(w, rawToken, s.cfg.Auth.SessionTTL, s.cfg.Auth.SecureCookies)
	s.telemetry.Track(user.ID, "user_logged_in", map[string]any{"provider": "google"})
	http.Redirect(w, r, origin+next, http.StatusFound)
}

// redirectLoginError sends the browser back to the frontend login page with
// a machine-readable error code. The flow never answers a callback with a
// JSON error body; the user is mid-redirect in a browser.
func (s *Server) redirectLoginError(w http.ResponseWriter, r *http.Request, origin, code string, err error) {
	if err != nil {
		s.logger.Warn("google oauth flow failed", "code", code, "error", err)
	} else {
		s.logger.Warn("google oauth flow failed", "code", code)
	}
	http.Redirect(w, r, origin+"/login?error="+code, http.StatusFound)
}

func cookieValue(r *http.Request, name, fallback string) string {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return fallback
	}
	return c.Value
}

// --- Google profile ---

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}

func (s *Server) fetchGoogleUser(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, _ := http.NewRequestWithContext(ctx, "GET", s.googleUserinfoURL, nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := oauthHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo API returned status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var user googleUserInfo
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// linkGoogleUser resolves a Google identity to a local user. A user already
// linked by Google subject is refreshed in place; otherwise the identity
// claims the account with the matching email, or a new account is created.
// The email write path is a single atomic upsert, so concurrent callbacks
// for the same identity converge on one row.
func (s *Server) linkGoogleUser(ctx context.Context, sub, email, name string, verified bool) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByGoogleID(ctx, sub)
	if err == nil {
		user.Email = email
		user.EmailVerified = verified
		if user.DisplayName == "" {
			user.DisplayName = name
		}
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("refresh linked user: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	newUserID, err := id.Generate("USR-")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user = &store.User{
		ID:            newUserID,
		Email:         email,
		GoogleID:      sub,
		DisplayName:   name,
		EmailVerified: verified,
	}
	if err := s.store.UpsertUserByEmail(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert user by email: %w", err)
	}

	// The upsert resolves to the canonical row ID; read it back so callers
	// see the stored state, not the candidate we proposed.
	return s.store.GetUser(ctx, user.ID)
}
