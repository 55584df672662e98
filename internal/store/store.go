package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store implementations.
var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrConflict      = errors.New("store: conflict")
	ErrInvalid       = errors.New("store: invalid data")
)

type Config struct {
	DatabaseURL     string        `json:"database_url"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	AutoMigrate     bool          `json:"auto_migrate"`
}

// InteractionType enumerates the kinds of public-profile interactions.
type InteractionType string

const (
	InteractionScan    InteractionType = "SCAN"
	InteractionContact InteractionType = "CONTACT"
)

// User represents a registered account. Email is unique; GoogleID, when
// non-empty, is unique as well (one external identity per local account).
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	GoogleID      string    `json:"-"`
	PasswordHash  string    `json:"-"`
	DisplayName   string    `json:"display_name,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	Title         string    `json:"title,omitempty"`
	Company       string    `json:"company,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Location      string    `json:"location,omitempty"`
	Website       string    `json:"website,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// QRCard is a user-owned QR-coded link to their public profile.
type QRCard struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Label     string    `json:"label"`
	PublicID  string    `json:"public_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QRCardSummary is the card projection embedded in interaction listings.
type QRCardSummary struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	PublicID string `json:"public_id"`
}

// Interaction records a single visitor event against a QR card.
type Interaction struct {
	ID         string          `json:"id"`
	QRCardID   string          `json:"qr_card_id"`
	Type       InteractionType `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Referrer   string          `json:"referrer,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`

	// Populated on listing paths that join card metadata.
	Card *QRCardSummary `json:"card,omitempty"`
}

// ActivityBucket is one (day, type) row of the time-bucketed aggregation.
type ActivityBucket struct {
	Day   time.Time
	Type  InteractionType
	Count int
}

// QRCardScans is a card plus its scan count for the top-cards report.
type QRCardScans struct {
	QRCardID string `json:"qr_card_id"`
	Label    string `json:"label"`
	PublicID string `json:"public_id"`
	Scans    int    `json:"scans"`
}

// QRCardUsage is the per-card rollup for the inventory view.
type QRCardUsage struct {
	ID             string     `json:"id"`
	Label          string     `json:"label"`
	PublicID       string     `json:"public_id"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Scans          int        `json:"scans"`
	Contacts       int        `json:"contacts"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

// BusinessProfile is a marketplace listing owned by a user.
type BusinessProfile struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Industry      string    `json:"industry"`
	Location      string    `json:"location"`
	StartingPrice *int64    `json:"starting_price,omitempty"`
	Website       string    `json:"website,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BusinessFilter narrows marketplace listings. Cursor is the id of the
// last row of the previous page (created_at DESC, id DESC ordering).
type BusinessFilter struct {
	Query    string
	Industry string
	Location string
	MinPrice *int64
	MaxPrice *int64
	Limit    int
	Cursor   string
}

// Session is an active browser session. ID is the SHA-256 hex digest of
// the raw cookie token; the raw token itself is never stored.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// DataStore declares data operations.
type DataStore interface {
	// User
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	// UpsertUserByEmail inserts u, or on an email conflict attaches u's
	// Google linkage to the existing row. The resolved row id is written
	// back to u.ID. A conflict on the google_id unique index (the subject
	// is already linked to a different account) returns ErrConflict.
	UpsertUserByEmail(ctx context.Context, u *User) error

	// Session
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) error

	// QRCard
	CreateQRCard(ctx context.Context, c *QRCard) error
	GetQRCard(ctx context.Context, id string) (*QRCard, error)
	GetQRCardByPublicID(ctx context.Context, publicID string) (*QRCard, error)
	ListQRCardsByUser(ctx context.Context, userID string) ([]*QRCard, error)
	UpdateQRCard(ctx context.Context, c *QRCard) error
	DeleteQRCard(ctx context.Context, id string) error

	// Interaction
	CreateInteraction(ctx context.Context, i *Interaction) error
	// ListInteractionsByUser returns up to limit interactions against the
	// user's cards, newest first, starting after cursor when non-empty.
	ListInteractionsByUser(ctx context.Context, userID string, limit int, cursor string) ([]*Interaction, error)
	CountQRCardsByUser(ctx context.Context, userID string) (int64, error)
	CountInteractionsByUser(ctx context.Context, userID string) (int64, error)

	// Analytics
	InteractionSeries(ctx context.Context, userID string, since time.Time) ([]ActivityBucket, error)
	TopQRCardsByScans(ctx context.Context, userID string, limit int) ([]QRCardScans, error)
	QRCardUsageByUser(ctx context.Context, userID string) ([]QRCardUsage, error)

	// BusinessProfile
	CreateBusinessProfile(ctx context.Context, b *BusinessProfile) error
	GetBusinessProfile(ctx context.Context, id string) (*BusinessProfile, error)
	GetNewestBusinessProfileByOwner(ctx context.Context, ownerID string) (*BusinessProfile, error)
	ListBusinessProfiles(ctx context.Context, f BusinessFilter) ([]*BusinessProfile, error)
	UpdateBusinessProfile(ctx context.Context, b *BusinessProfile) error
	DeleteBusinessProfile(ctx context.Context, id string) error
}

// Store is the root database handle with lifecycle methods.
type Store interface {
	DataStore
	Config() Config
	Ping(ctx context.Context) error
	WithTx(ctx context.Context, fn func(tx DataStore) error) error
	Close() error
}
