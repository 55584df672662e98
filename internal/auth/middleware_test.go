package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qraftyhq/api/internal/store"
)

func validSessionStore(t *testing.T, rawToken, userID string) *mockStore {
	t.Helper()
	return &mockStore{
		getSessionFn: func(_ context.Context, id string) (*store.Session, error) {
			if id != HashSessionToken(rawToken) {
				return nil, store.ErrNotFound
			}
			return &store.Session{
				ID:        id,
				UserID:    userID,
				ExpiresAt: time.Now().UTC().Add(time.Hour),
			}, nil
		},
		getUserFn: func(_ context.Context, id string) (*store.User, error) {
			if id != userID {
				return nil, store.ErrNotFound
			}
			return &store.User{ID: userID, Email: "user@example.com"}, nil
		},
	}
}

func TestResolveUser_NoCookie(t *testing.T) {
	st := &mockStore{}
	r := httptest.NewRequest("GET", "/auth/me", nil)

	if u := ResolveUser(r, st); u != nil {
		t.Fatalf("expected nil user without cookie, got %+v", u)
	}
}

func TestResolveUser_UnknownSession(t *testing.T) {
	st := &mockStore{
		getSessionFn: func(context.Context, string) (*store.Session, error) {
			return nil, store.ErrNotFound
		},
	}
	r := httptest.NewRequest("GET", "/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})

	if u := ResolveUser(r, st); u != nil {
		t.Fatalf("expected nil user for unknown session, got %+v", u)
	}
}

func TestSessionTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/auth/me", nil)
	if got := SessionTokenFromRequest(r); got != "" {
		t.Fatalf("token = %q, want empty", got)
	}

	r = httptest.NewRequest("GET", "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	if got := SessionTokenFromRequest(r); got != "header-token" {
		t.Fatalf("token = %q, want header-token", got)
	}

	// Cookie wins when both are present.
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	if got := SessionTokenFromRequest(r); got != "cookie-token" {
		t.Fatalf("token = %q, want cookie-token", got)
	}

	r = httptest.NewRequest("GET", "/auth/me", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := SessionTokenFromRequest(r); got != "" {
		t.Fatalf("token = %q, want empty for non-Bearer scheme", got)
	}
}

func TestResolveUser_BearerToken(t *testing.T) {
	st := validSessionStore(t, "raw-token", "usr-1")
	r := httptest.NewRequest("GET", "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer raw-token")

	u := ResolveUser(r, st)
	if u == nil || u.ID != "usr-1" {
		t.Fatalf("user = %+v, want usr-1", u)
	}
}

func TestResolveUser_Valid(t *testing.T) {
	st := validSessionStore(t, "raw-token", "usr-1")
	r := httptest.NewRequest("GET", "/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "raw-token"})

	u := ResolveUser(r, st)
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.ID != "usr-1" {
		t.Fatalf("user ID = %q, want usr-1", u.ID)
	}
}

func TestRequireAuth_NoCookie(t *testing.T) {
	st := &mockStore{}
	handler := RequireAuth(st, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/qr-cards", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_InvalidSession(t *testing.T) {
	st := &mockStore{
		getSessionFn: func(context.Context, string) (*store.Session, error) {
			return nil, store.ErrNotFound
		},
	}
	handler := RequireAuth(st, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	r := httptest.NewRequest("GET", "/qr-cards", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	// Stale cookie should be cleared.
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected stale session cookie to be cleared")
	}
}

func TestRequireAuth_LoadsUserIntoContext(t *testing.T) {
	st := validSessionStore(t, "raw-token", "usr-1")

	var got *store.User
	handler := RequireAuth(st, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/qr-cards", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "raw-token"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got == nil || got.ID != "usr-1" {
		t.Fatalf("context user = %+v, want usr-1", got)
	}
}

func TestRequireAuth_BearerToken(t *testing.T) {
	st := validSessionStore(t, "raw-token", "usr-1")

	handler := RequireAuth(st, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/qr-cards", nil)
	r.Header.Set("Authorization", "Bearer raw-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if u := UserFromContext(context.Background()); u != nil {
		t.Fatalf("expected nil user from empty context, got %+v", u)
	}
}
