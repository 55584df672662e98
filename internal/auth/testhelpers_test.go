package auth

import (
	"context"
	"time"

	"github.com/qraftyhq/api/internal/store"
)

// mockStore implements store.Store for testing. Only the methods used in tests
// have real implementations; everything else panics so unexpected calls surface
// immediately.
type mockStore struct {
	// Settable hooks for the methods under test.
	getSessionFn    func(ctx context.Context, id string) (*store.Session, error)
	getUserFn       func(ctx context.Context, id string) (*store.User, error)
	createSessionFn func(ctx context.Context, s *store.Session) error
}

// ---- store.Store lifecycle methods ----

func (m *mockStore) Config() store.Config       { return store.Config{} }
func (m *mockStore) Ping(context.Context) error { return nil }
func (m *mockStore) WithTx(_ context.Context, _ func(store.DataStore) error) error {
	panic("mockStore: WithTx not implemented")
}
func (m *mockStore) Close() error { return nil }

// ---- User ----

func (m *mockStore) CreateUser(context.Context, *store.User) error {
	panic("mockStore: CreateUser not implemented")
}
func (m *mockStore) GetUser(ctx context.Context, id string) (*store.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, id)
	}
	panic("mockStore: GetUser not implemented")
}
func (m *mockStore) GetUserByEmail(context.Context, string) (*store.User, error) {
	panic("mockStore: GetUserByEmail not implemented")
}
func (m *mockStore) GetUserByGoogleID(context.Context, string) (*store.User, error) {
	panic("mockStore: GetUserByGoogleID not implemented")
}
func (m *mockStore) UpdateUser(context.Context, *store.User) error {
	panic("mockStore: UpdateUser not implemented")
}
func (m *mockStore) UpsertUserByEmail(context.Context, *store.User) error {
	panic("mockStore: UpsertUserByEmail not implemented")
}

// ---- Session ----

func (m *mockStore) CreateSession(ctx context.Context, s *store.Session) error {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, s)
	}
	panic("mockStore: CreateSession not implemented")
}
func (m *mockStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, id)
	}
	panic("mockStore: GetSession not implemented")
}
func (m *mockStore) DeleteSession(context.Context, string) error {
	panic("mockStore: DeleteSession not implemented")
}
func (m *mockStore) DeleteExpiredSessions(context.Context) error {
	panic("mockStore: DeleteExpiredSessions not implemented")
}

// ---- QR cards ----

func (m *mockStore) CreateQRCard(context.Context, *store.QRCard) error {
	panic("mockStore: CreateQRCard not implemented")
}
func (m *mockStore) GetQRCard(context.Context, string) (*store.QRCard, error) {
	panic("mockStore: GetQRCard not implemented")
}
func (m *mockStore) GetQRCardByPublicID(context.Context, string) (*store.QRCard, error) {
	panic("mockStore: GetQRCardByPublicID not implemented")
}
func (m *mockStore) ListQRCardsByUser(context.Context, string) ([]*store.QRCard, error) {
	panic("mockStore: ListQRCardsByUser not implemented")
}
func (m *mockStore) UpdateQRCard(context.Context, *store.QRCard) error {
	panic("mockStore: UpdateQRCard not implemented")
}
func (m *mockStore) DeleteQRCard(context.Context, string) error {
	panic("mockStore: DeleteQRCard not implemented")
}

// ---- Interactions ----

func (m *mockStore) CreateInteraction(context.Context, *store.Interaction) error {
	panic("mockStore: CreateInteraction not implemented")
}
func (m *mockStore) ListInteractionsByUser(context.Context, string, int, string) ([]*store.Interaction, error) {
	panic("mockStore: ListInteractionsByUser not implemented")
}
func (m *mockStore) CountQRCardsByUser(context.Context, string) (int64, error) {
	panic("mockStore: CountQRCardsByUser not implemented")
}
func (m *mockStore) CountInteractionsByUser(context.Context, string) (int64, error) {
	panic("mockStore: CountInteractionsByUser not implemented")
}
func (m *mockStore) InteractionSeries(context.Context, string, time.Time) ([]store.ActivityBucket, error) {
	panic("mockStore: InteractionSeries not implemented")
}
func (m *mockStore) TopQRCardsByScans(context.Context, string, int) ([]store.QRCardScans, error) {
	panic("mockStore: TopQRCardsByScans not implemented")
}
func (m *mockStore) QRCardUsageByUser(context.Context, string) ([]store.QRCardUsage, error) {
	panic("mockStore: QRCardUsageByUser not implemented")
}

// ---- Business profiles ----

func (m *mockStore) CreateBusinessProfile(context.Context, *store.BusinessProfile) error {
	panic("mockStore: CreateBusinessProfile not implemented")
}
func (m *mockStore) GetBusinessProfile(context.Context, string) (*store.BusinessProfile, error) {
	panic("mockStore: GetBusinessProfile not implemented")
}
func (m *mockStore) GetNewestBusinessProfileByOwner(context.Context, string) (*store.BusinessProfile, error) {
	panic("mockStore: GetNewestBusinessProfileByOwner not implemented")
}
func (m *mockStore) ListBusinessProfiles(context.Context, store.BusinessFilter) ([]*store.BusinessProfile, error) {
	panic("mockStore: ListBusinessProfiles not implemented")
}
func (m *mockStore) UpdateBusinessProfile(context.Context, *store.BusinessProfile) error {
	panic("mockStore: UpdateBusinessProfile not implemented")
}
func (m *mockStore) DeleteBusinessProfile(context.Context, string) error {
	panic("mockStore: DeleteBusinessProfile not implemented")
}
