package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	serverError "github.com/qraftyhq/api/internal/error"
	"github.com/qraftyhq/api/internal/store"
)

type userKey struct{}

func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(userKey{}).(*store.User)
	return u
}

// SessionTokenFromRequest returns the raw session token carried by the
// request: the session cookie when present, otherwise a Bearer Authorization
// header. Returns "" when the request carries neither.
func SessionTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// ResolveUser loads the user for the request's session token, or nil when
// there is no token, the session is unknown or expired, or the user row is
// gone. It never returns an error: callers that tolerate anonymous requests
// treat every failure mode the same way.
func ResolveUser(r *http.Request, st store.Store) *store.User {
	token := SessionTokenFromRequest(r)
	if token == "" {
		return nil
	}

	sess, err := st.GetSession(r.Context(), HashSessionToken(token))
	if err != nil {
		return nil
	}

	user, err := st.GetUser(r.Context(), sess.UserID)
	if err != nil {
		return nil
	}
	return user
}

// RequireAuth is middleware that validates the session token and loads user into context.
func RequireAuth(st store.Store, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionTokenFromRequest(r)
			if token == "" {
				serverError.RespondError(w, http.StatusUnauthorized, fmt.Errorf("authentication required"))
				return
			}

			sess, err := st.GetSession(r.Context(), HashSessionToken(token))
			if err != nil {
				ClearSessionCookie(w, secureCookies)
				serverError.RespondError(w, http.StatusUnauthorized, fmt.Errorf("invalid or expired session"))
				return
			}

			user, err := st.GetUser(r.Context(), sess.UserID)
			if err != nil {
				ClearSessionCookie(w, secureCookies)
				serverError.RespondError(w, http.StatusUnauthorized, fmt.Errorf("user not found"))
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
