package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/qraftyhq/api/internal/auth"
	"github.com/qraftyhq/api/internal/config"
	"github.com/qraftyhq/api/internal/store"
)

// ---------------------------------------------------------------------------
// mockStore implements store.Store with function-field delegation
// ---------------------------------------------------------------------------

type mockStore struct {
	// User
	CreateUserFn        func(ctx context.Context, u *store.User) error
	GetUserFn           func(ctx context.Context, id string) (*store.User, error)
	GetUserByEmailFn    func(ctx context.Context, email string) (*store.User, error)
	GetUserByGoogleIDFn func(ctx context.Context, googleID string) (*store.User, error)
	UpdateUserFn        func(ctx context.Context, u *store.User) error
	UpsertUserByEmailFn func(ctx context.Context, u *store.User) error

	// Session
	CreateSessionFn         func(ctx context.Context, s *store.Session) error
	GetSessionFn            func(ctx context.Context, id string) (*store.Session, error)
	DeleteSessionFn         func(ctx context.Context, id string) error
	DeleteExpiredSessionsFn func(ctx context.Context) error

	// QR cards
	CreateQRCardFn        func(ctx context.Context, c *store.QRCard) error
	GetQRCardFn           func(ctx context.Context, id string) (*store.QRCard, error)
	GetQRCardByPublicIDFn func(ctx context.Context, publicID string) (*store.QRCard, error)
	ListQRCardsByUserFn   func(ctx context.Context, userID string) ([]*store.QRCard, error)
	UpdateQRCardFn        func(ctx context.Context, c *store.QRCard) error
	DeleteQRCardFn        func(ctx context.Context, id string) error

	// Interactions
	CreateInteractionFn      func(ctx context.Context, i *store.Interaction) error
	ListInteractionsByUserFn func(ctx context.Context, userID string, limit int, cursor string) ([]*store.Interaction, error)
	CountQRCardsByUserFn     func(ctx context.Context, userID string) (int64, error)
	CountInteractionsFn      func(ctx context.Context, userID string) (int64, error)
	InteractionSeriesFn      func(ctx context.Context, userID string, since time.Time) ([]store.ActivityBucket, error)
	TopQRCardsByScansFn      func(ctx context.Context, userID string, limit int) ([]store.QRCardScans, error)
	QRCardUsageByUserFn      func(ctx context.Context, userID string) ([]store.QRCardUsage, error)

	// Business profiles
	CreateBusinessProfileFn           func(ctx context.Context, b *store.BusinessProfile) error
	GetBusinessProfileFn              func(ctx context.Context, id string) (*store.BusinessProfile, error)
	GetNewestBusinessProfileByOwnerFn func(ctx context.Context, ownerID string) (*store.BusinessProfile, error)
	ListBusinessProfilesFn            func(ctx context.Context, f store.BusinessFilter) ([]*store.BusinessProfile, error)
	UpdateBusinessProfileFn           func(ctx context.Context, b *store.BusinessProfile) error
	DeleteBusinessProfileFn           func(ctx context.Context, id string) error

	// WithTx
	WithTxFn func(ctx context.Context, fn func(tx store.DataStore) error) error
}

// Store interface
func (m *mockStore) Config() store.Config       { return store.Config{} }
func (m *mockStore) Ping(context.Context) error { return nil }
func (m *mockStore) Close() error               { return nil }

func (m *mockStore) WithTx(ctx context.Context, fn func(tx store.DataStore) error) error {
	if m.WithTxFn != nil {
		return m.WithTxFn(ctx, fn)
	}
	return fn(m)
}

// User

func (m *mockStore) CreateUser(ctx context.Context, u *store.User) error {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, u)
	}
	panic("mockStore.CreateUser not configured")
}

func (m *mockStore) GetUser(ctx context.Context, id string) (*store.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	panic("mockStore.GetUser not configured")
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	panic("mockStore.GetUserByEmail not configured")
}

func (m *mockStore) GetUserByGoogleID(ctx context.Context, googleID string) (*store.User, error) {
	if m.GetUserByGoogleIDFn != nil {
		return m.GetUserByGoogleIDFn(ctx, googleID)
	}
	panic("mockStore.GetUserByGoogleID not configured")
}

func (m *mockStore) UpdateUser(ctx context.Context, u *store.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, u)
	}
	panic("mockStore.UpdateUser not configured")
}

func (m *mockStore) UpsertUserByEmail(ctx context.Context, u *store.User) error {
	if m.UpsertUserByEmailFn != nil {
		return m.UpsertUserByEmailFn(ctx, u)
	}
	panic("mockStore.UpsertUserByEmail not configured")
}

// Session

func (m *mockStore) CreateSession(ctx context.Context, s *store.Session) error {
	if m.CreateSessionFn != nil {
		return m.CreateSessionFn(ctx, s)
	}
	panic("mockStore.CreateSession not configured")
}

func (m *mockStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	if m.GetSessionFn != nil {
		return m.GetSessionFn(ctx, id)
	}
	panic("mockStore.GetSession not configured")
}

func (m *mockStore) DeleteSession(ctx context.Context, id string) error {
	if m.DeleteSessionFn != nil {
		return m.DeleteSessionFn(ctx, id)
	}
	panic("mockStore.DeleteSession not configured")
}

func (m *mockStore) DeleteExpiredSessions(ctx context.Context) error {
	if m.DeleteExpiredSessionsFn != nil {
		return m.DeleteExpiredSessionsFn(ctx)
	}
	panic("mockStore.DeleteExpiredSessions not configured")
}

// QR cards

func (m *mockStore) CreateQRCard(ctx context.Context, c *store.QRCard) error {
	if m.CreateQRCardFn != nil {
		return m.CreateQRCardFn(ctx, c)
	}
	panic("mockStore.CreateQRCard not configured")
}

func (m *mockStore) GetQRCard(ctx context.Context, id string) (*store.QRCard, error) {
	if m.GetQRCardFn != nil {
		return m.GetQRCardFn(ctx, id)
	}
	panic("mockStore.GetQRCard not configured")
}

func (m *mockStore) GetQRCardByPublicID(ctx context.Context, publicID string) (*store.QRCard, error) {
	if m.GetQRCardByPublicIDFn != nil {
		return m.GetQRCardByPublicIDFn(ctx, publicID)
	}
	panic("mockStore.GetQRCardByPublicID not configured")
}

func (m *mockStore) ListQRCardsByUser(ctx context.Context, userID string) ([]*store.QRCard, error) {
	if m.ListQRCardsByUserFn != nil {
		return m.ListQRCardsByUserFn(ctx, userID)
	}
	panic("mockStore.ListQRCardsByUser not configured")
}

func (m *mockStore) UpdateQRCard(ctx context.Context, c *store.QRCard) error {
	if m.UpdateQRCardFn != nil {
		return m.UpdateQRCardFn(ctx, c)
	}
	panic("mockStore.UpdateQRCard not configured")
}

func (m *mockStore) DeleteQRCard(ctx context.Context, id string) error {
	if m.DeleteQRCardFn != nil {
		return m.DeleteQRCardFn(ctx, id)
	}
	panic("mockStore.DeleteQRCard not configured")
}

// Interactions

func (m *mockStore) CreateInteraction(ctx context.Context, i *store.Interaction) error {
	if m.CreateInteractionFn != nil {
		return m.CreateInteractionFn(ctx, i)
	}
	panic("mockStore.CreateInteraction not configured")
}

func (m *mockStore) ListInteractionsByUser(ctx context.Context, userID string, limit int, cursor string) ([]*store.Interaction, error) {
	if m.ListInteractionsByUserFn != nil {
		return m.ListInteractionsByUserFn(ctx, userID, limit, cursor)
	}
	panic("mockStore.ListInteractionsByUser not configured")
}

func (m *mockStore) CountQRCardsByUser(ctx context.Context, userID string) (int64, error) {
	if m.CountQRCardsByUserFn != nil {
		return m.CountQRCardsByUserFn(ctx, userID)
	}
	panic("mockStore.CountQRCardsByUser not configured")
}

func (m *mockStore) CountInteractionsByUser(ctx context.Context, userID string) (int64, error) {
	if m.CountInteractionsFn != nil {
		return m.CountInteractionsFn(ctx, userID)
	}
	panic("mockStore.CountInteractionsByUser not configured")
}

func (m *mockStore) InteractionSeries(ctx context.Context, userID string, since time.Time) ([]store.ActivityBucket, error) {
	if m.InteractionSeriesFn != nil {
		return m.InteractionSeriesFn(ctx, userID, since)
	}
	panic("mockStore.InteractionSeries not configured")
}

func (m *mockStore) TopQRCardsByScans(ctx context.Context, userID string, limit int) ([]store.QRCardScans, error) {
	if m.TopQRCardsByScansFn != nil {
		return m.TopQRCardsByScansFn(ctx, userID, limit)
	}
	panic("mockStore.TopQRCardsByScans not configured")
}

func (m *mockStore) QRCardUsageByUser(ctx context.Context, userID string) ([]store.QRCardUsage, error) {
	if m.QRCardUsageByUserFn != nil {
		return m.QRCardUsageByUserFn(ctx, userID)
	}
	panic("mockStore.QRCardUsageByUser not configured")
}

// Business profiles

func (m *mockStore) CreateBusinessProfile(ctx context.Context, b *store.BusinessProfile) error {
	if m.CreateBusinessProfileFn != nil {
		return m.CreateBusinessProfileFn(ctx, b)
	}
	panic("mockStore.CreateBusinessProfile not configured")
}

func (m *mockStore) GetBusinessProfile(ctx context.Context, id string) (*store.BusinessProfile, error) {
	if m.GetBusinessProfileFn != nil {
		return m.GetBusinessProfileFn(ctx, id)
	}
	panic("mockStore.GetBusinessProfile not configured")
}

func (m *mockStore) GetNewestBusinessProfileByOwner(ctx context.Context, ownerID string) (*store.BusinessProfile, error) {
	if m.GetNewestBusinessProfileByOwnerFn != nil {
		return m.GetNewestBusinessProfileByOwnerFn(ctx, ownerID)
	}
	panic("mockStore.GetNewestBusinessProfileByOwner not configured")
}

func (m *mockStore) ListBusinessProfiles(ctx context.Context, f store.BusinessFilter) ([]*store.BusinessProfile, error) {
	if m.ListBusinessProfilesFn != nil {
		return m.ListBusinessProfilesFn(ctx, f)
	}
	panic("mockStore.ListBusinessProfiles not configured")
}

func (m *mockStore) UpdateBusinessProfile(ctx context.Context, b *store.BusinessProfile) error {
	if m.UpdateBusinessProfileFn != nil {
		return m.UpdateBusinessProfileFn(ctx, b)
	}
	panic("mockStore.UpdateBusinessProfile not configured")
}

func (m *mockStore) DeleteBusinessProfile(ctx context.Context, id string) error {
	if m.DeleteBusinessProfileFn != nil {
		return m.DeleteBusinessProfileFn(ctx, id)
	}
	panic("mockStore.DeleteBusinessProfile not configured")
}

// ---------------------------------------------------------------------------
// testConfig returns a Config with safe defaults for testing
// ---------------------------------------------------------------------------

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			Addr:            ":0",
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Web: config.WebConfig{
			Origin: "http://localhost:5173",
		},
		Auth: config.AuthConfig{
			SessionTTL: 168 * time.Hour,
			Google: config.OAuthProviderConfig{
				ClientID:     "test-client-id",
				ClientSecret: "test-client-secret",
				RedirectURL:  "http://localhost:8080/auth/google/callback",
			},
		},
		Environment: "development",
	}
}

// ---------------------------------------------------------------------------
// Test fixtures
// ---------------------------------------------------------------------------

var (
	testUser = &store.User{
		ID:          "USR-test1234",
		Email:       "test@example.com",
		DisplayName: "Test User",
	}

	testCard = &store.QRCard{
		ID:       "QRC-test1234",
		UserID:   testUser.ID,
		Label:    "Front desk",
		PublicID: "pub_test1234",
		IsActive: true,
	}

	testSessionToken = "test-session-token-value"
)

// ---------------------------------------------------------------------------
// newTestServer creates a Server wired up with the given mock store
// ---------------------------------------------------------------------------

func newTestServer(ms *mockStore, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = testConfig()
	}
	return NewServer(ms, cfg, nil, nil)
}

// authenticatedRequest builds a request carrying a valid session cookie and
// configures the mock store to resolve it to the test user. Pass a prebuilt
// request as bodyReq when the call needs a body.
func authenticatedRequest(ms *mockStore, method, path string, bodyReq *http.Request) *http.Request {
	req := bodyReq
	if req == nil {
		req = httptest.NewRequest(method, path, nil)
	}

	req.AddCookie(&http.Cookie{
		Name:  auth.SessionCookieName,
		Value: testSessionToken,
	})

	if ms.GetSessionFn == nil {
		hashedToken := auth.HashSessionToken(testSessionToken)
		ms.GetSessionFn = func(_ context.Context, id string) (*store.Session, error) {
			if id == hashedToken {
				return &store.Session{
					ID:        hashedToken,
					UserID:    testUser.ID,
					ExpiresAt: time.Now().Add(24 * time.Hour),
				}, nil
			}
			return nil, store.ErrNotFound
		}
	}

	if ms.GetUserFn == nil {
		ms.GetUserFn = func(_ context.Context, id string) (*store.User, error) {
			if id == testUser.ID {
				return testUser, nil
			}
			return nil, store.ErrNotFound
		}
	}

	return req
}

// parseJSONResponse reads body into a map
func parseJSONResponse(rr *httptest.ResponseRecorder) map[string]any {
	var result map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &result)
	return result
}

// findCookie returns the named Set-Cookie from the recorder, or nil.
func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
