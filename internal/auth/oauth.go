package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// The OAuth redirect flow spans two requests, so everything the callback
// needs to finish the transaction travels in short-lived cookies set by
// the start handler.
const (
	OAuthStateCookieName       = "qrafty_oauth_state"
	OAuthOriginCookieName      = "qrafty_oauth_origin"
	OAuthRedirectURLCookieName = "qrafty_oauth_redirect_url"
	OAuthNextCookieName        = "qrafty_oauth_next"

	oauthStateLen    = 32
	oauthStateMaxAge = 600 // 10 minutes

	// DefaultNextPath is where a completed login lands when the flow did
	// not carry a usable next path.
	DefaultNextPath = "/app"
)

func GenerateOAuthState() (string, error) {
	b := make([]byte, oauthStateLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func setOAuthCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   oauthStateMaxAge,
	})
}

func clearOAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// SetOAuthTransactionCookies records the state plus everything the callback
// needs to resume: the origin to send the browser back to, the redirect URL
// the code exchange must repeat verbatim, and the post-login path.
func SetOAuthTransactionCookies(w http.ResponseWriter, state, origin, redirectURL, next string, secure bool) {
	setOAuthCookie(w, OAuthStateCookieName, state, secure)
	setOAuthCookie(w, OAuthOriginCookieName, origin, secure)
	setOAuthCookie(w, OAuthRedirectURLCookieName, redirectURL, secure)
	setOAuthCookie(w, OAuthNextCookieName, next, secure)
}

// ClearOAuthTransactionCookies removes all four flow cookies so a state
// value can never be replayed against a later callback.
func ClearOAuthTransactionCookies(w http.ResponseWriter) {
	clearOAuthCookie(w, OAuthStateCookieName)
	clearOAuthCookie(w, OAuthOriginCookieName)
	clearOAuthCookie(w, OAuthRedirectURLCookieName)
	clearOAuthCookie(w, OAuthNextCookieName)
}

// ValidateOAuthState compares the state query parameter against the state
// cookie in constant time.
func ValidateOAuthState(r *http.Request) error {
	state := r.URL.Query().Get("state")
	if state == "" {
		return fmt.Errorf("missing state parameter")
	}

	cookie, err := r.Cookie(OAuthStateCookieName)
	if err != nil || cookie.Value == "" {
		return fmt.Errorf("missing oauth state cookie")
	}

	if subtle.ConstantTimeCompare([]byte(state), []byte(cookie.Value)) != 1 {
		return fmt.Errorf("state mismatch")
	}

	return nil
}

// SafeNextPath returns raw when it is a same-site path safe to redirect to:
// it must start with a single "/" and contain no CR or LF. Anything else,
// including protocol-relative "//host" forms, falls back to DefaultNextPath.
func SafeNextPath(raw string) string {
	if raw == "" {
		return DefaultNextPath
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return DefaultNextPath
	}
	if strings.ContainsAny(raw, "\r\n") {
		return DefaultNextPath
	}
	return raw
}

// SafeOrigin reduces raw to a bare scheme://host origin. Values that do not
// parse as an absolute http(s) URL return the fallback instead, so a
// corrupted or forged value can never steer the post-login redirect.
func SafeOrigin(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fallback
	}
	return u.Scheme + "://" + u.Host
}

// ResolveOrigin determines which browser origin started the flow, trying the
// Referer header, then the Origin header, then the configured fallback.
func ResolveOrigin(r *http.Request, fallback string) string {
	if o := SafeOrigin(r.Header.Get("Referer"), ""); o != "" {
		return o
	}
	if o := SafeOrigin(r.Header.Get("Origin"), ""); o != "" {
		return o
	}
	return fallback
}

// ResolveRedirectURL returns the callback URL the provider should send the
// browser to. Outside production, a loopback host in the configured URL is
// swapped for the host the request actually arrived on, so that flows
// started against a LAN or tunnel address stay on that address.
func ResolveRedirectURL(r *http.Request, configured string, production bool) string {
	if production || configured == "" {
		return configured
	}

	u, err := url.Parse(configured)
	if err != nil {
		return configured
	}
	if !isLoopbackHost(u.Hostname()) {
		return configured
	}

	reqHost := r.Host
	if reqHost == "" || hostsEqual(u.Host, reqHost) {
		return configured
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u.Scheme = scheme
	u.Host = reqHost
	return u.String()
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

func hostsEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

func GoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}
