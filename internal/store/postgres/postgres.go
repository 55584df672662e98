package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qraftyhq/api/internal/store"
)

var (
	_ store.Store     = (*postgresStore)(nil)
	_ store.DataStore = (*postgresStore)(nil)
)

type postgresStore struct {
	db   *gorm.DB
	conf store.Config
}

// GORM models

type UserModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Email         string    `gorm:"column:email;uniqueIndex:idx_users_email"`
	GoogleID      string    `gorm:"column:google_id;uniqueIndex:idx_users_google_id,where:google_id <> ''"`
	PasswordHash  string    `gorm:"column:password_hash"`
	DisplayName   string    `gorm:"column:display_name"`
	EmailVerified bool      `gorm:"column:email_verified;default:false"`
	Title         string    `gorm:"column:title"`
	Company       string    `gorm:"column:company"`
	Phone         string    `gorm:"column:phone"`
	Location      string    `gorm:"column:location"`
	Website       string    `gorm:"column:website"`
	Bio           string    `gorm:"column:bio"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (UserModel) TableName() string { return "users" }

type SessionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;index"`
	IPAddress string    `gorm:"column:ip_address"`
	UserAgent string    `gorm:"column:user_agent"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SessionModel) TableName() string { return "sessions" }

type QRCardModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;index"`
	Label     string    `gorm:"column:label"`
	PublicID  string    `gorm:"column:public_id;uniqueIndex:idx_qr_cards_public_id"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (QRCardModel) TableName() string { return "qr_cards" }

type InteractionModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	QRCardID   string    `gorm:"column:qr_card_id;index:idx_interactions_card_occurred,priority:1"`
	Type       string    `gorm:"column:type"`
	OccurredAt time.Time `gorm:"column:occurred_at;index:idx_interactions_card_occurred,priority:2"`
	Referrer   string    `gorm:"column:referrer"`
	UserAgent  string    `gorm:"column:user_agent"`
}

func (InteractionModel) TableName() string { return "interactions" }

type BusinessProfileModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	OwnerID       string    `gorm:"column:owner_id;index"`
	Name          string    `gorm:"column:name"`
	Description   string    `gorm:"column:description"`
	Industry      string    `gorm:"column:industry"`
	Location      string    `gorm:"column:location"`
	StartingPrice *int64    `gorm:"column:starting_price"`
	Website       string    `gorm:"column:website"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (BusinessProfileModel) TableName() string { return "business_profiles" }

func New(ctx context.Context, cfg store.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("postgres: missing DatabaseURL")
	}

	db, err := gorm.Open(
		postgres.Open(cfg.DatabaseURL),
		&gorm.Config{
			NowFunc: func() time.Time { return time.Now().UTC() },
			Logger:  logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: sql.DB handle: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pg := &postgresStore{db: db.WithContext(ctx), conf: cfg}

	if cfg.AutoMigrate {
		if err := pg.autoMigrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	if err := pg.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return pg, nil
}

func (s *postgresStore) autoMigrate(_ context.Context) error {
	return s.db.AutoMigrate(
		&UserModel{},
		&SessionModel{},
		&QRCardModel{},
		&InteractionModel{},
		&BusinessProfileModel{},
	)
}

func (s *postgresStore) Config() store.Config { return s.conf }

func (s *postgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *postgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *postgresStore) WithTx(ctx context.Context, fn func(tx store.DataStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&postgresStore{db: tx, conf: s.conf})
	})
}

// --- Model converters ---

func userToModel(u *store.User) *UserModel {
	return &UserModel{
		ID:            u.ID,
		Email:         u.Email,
		GoogleID:      u.GoogleID,
		PasswordHash:  u.PasswordHash,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		Title:         u.Title,
		Company:       u.Company,
		Phone:         u.Phone,
		Location:      u.Location,
		Website:       u.Website,
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func userFromModel(m *UserModel) *store.User {
	return &store.User{
		ID:            m.ID,
		Email:         m.Email,
		GoogleID:      m.GoogleID,
		PasswordHash:  m.PasswordHash,
		DisplayName:   m.DisplayName,
		EmailVerified: m.EmailVerified,
		Title:         m.Title,
		Company:       m.Company,
		Phone:         m.Phone,
		Location:      m.Location,
		Website:       m.Website,
		Bio:           m.Bio,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func sessionToModel(s *store.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		IPAddress: s.IPAddress,
		UserAgent: s.UserAgent,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}

func sessionFromModel(m *SessionModel) *store.Session {
	return &store.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		IPAddress: m.IPAddress,
		UserAgent: m.UserAgent,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

func cardToModel(c *store.QRCard) *QRCardModel {
	return &QRCardModel{
		ID:        c.ID,
		UserID:    c.UserID,
		Label:     c.Label,
		PublicID:  c.PublicID,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func cardFromModel(m *QRCardModel) *store.QRCard {
	return &store.QRCard{
		ID:        m.ID,
		UserID:    m.UserID,
		Label:     m.Label,
		PublicID:  m.PublicID,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func interactionToModel(i *store.Interaction) *InteractionModel {
	return &InteractionModel{
		ID:         i.ID,
		QRCardID:   i.QRCardID,
		Type:       string(i.Type),
		OccurredAt: i.OccurredAt,
		Referrer:   i.Referrer,
		UserAgent:  i.UserAgent,
	}
}

func businessToModel(b *store.BusinessProfile) *BusinessProfileModel {
	return &BusinessProfileModel{
		ID:            b.ID,
		OwnerID:       b.OwnerID,
		Name:          b.Name,
		Description:   b.Description,
		Industry:      b.Industry,
		Location:      b.Location,
		StartingPrice: b.StartingPrice,
		Website:       b.Website,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func businessFromModel(m *BusinessProfileModel) *store.BusinessProfile {
	return &store.BusinessProfile{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		Description:   m.Description,
		Industry:      m.Industry,
		Location:      m.Location,
		StartingPrice: m.StartingPrice,
		Website:       m.Website,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrAlreadyExists
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrAlreadyExists
		case "23503":
			return store.ErrInvalid
		}
	}
	return err
}

// --- User CRUD ---

func (s *postgresStore) CreateUser(ctx context.Context, u *store.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(userToModel(u)).Error; err != nil {
		return mapDBError(err)
	}
	return nil
}

func (s *postgresStore) GetUser(ctx context.Context, id string) (*store.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return userFromModel(&model), nil
}

func (s *postgresStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return userFromModel(&model), nil
}

func (s *postgresStore) GetUserByGoogleID(ctx context.Context, googleID string) (*store.User, error) {
	if googleID == "" {
		return nil, store.ErrNotFound
	}
	var model UserModel
	if err := s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return userFromModel(&model), nil
}

func (s *postgresStore) UpdateUser(ctx context.Context, u *store.User) error {
	u.UpdatedAt = time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", u.ID).
		Updates(map[string]any{
			"email":          u.Email,
			"google_id":      u.GoogleID,
			"password_hash":  u.PasswordHash,
			"display_name":   u.DisplayName,
			"email_verified": u.EmailVerified,
			"title":          u.Title,
			"company":        u.Company,
			"phone":          u.Phone,
			"location":       u.Location,
			"website":        u.Website,
			"bio":            u.Bio,
			"updated_at":     u.UpdatedAt,
		})
	if err := mapDBError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpsertUserByEmail implements the account-linking write as a single
// INSERT ... ON CONFLICT so that two concurrent callbacks for the same
// new email cannot create two rows. The existing display name wins over
// the provider hint when one is already set.
func (s *postgresStore) UpsertUserByEmail(ctx context.Context, u *store.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	var id string
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO users (id, email, google_id, password_hash, display_name, email_verified, title, company, phone, location, website, bio, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?, '', '', '', '', '', '', ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			google_id      = EXCLUDED.google_id,
			email_verified = EXCLUDED.email_verified,
			display_name   = CASE WHEN users.display_name = '' THEN EXCLUDED.display_name ELSE users.display_name END,
			updated_at     = EXCLUDED.updated_at
		RETURNING id`,
		u.ID, u.Email, u.GoogleID, u.DisplayName, u.EmailVerified, u.CreatedAt, u.UpdatedAt,
	).Scan(&id).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "google_id") {
			return store.ErrConflict
		}
		return mapDBError(err)
	}
	u.ID = id
	return nil
}

// --- Session CRUD ---

func (s *postgresStore) CreateSession(ctx context.Context, sess *store.Session) error {
	sess.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(sessionToModel(sess)).Error; err != nil {
		return mapDBError(err)
	}
	return nil
}

func (s *postgresStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	var model SessionModel
	if err := s.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, time.Now().UTC()).First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return sessionFromModel(&model), nil
}

func (s *postgresStore) DeleteSession(ctx context.Context, id string) error {
	return mapDBError(s.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{}).Error)
}

func (s *postgresStore) DeleteExpiredSessions(ctx context.Context) error {
	return mapDBError(s.db.WithContext(ctx).Where("expires_at <= ?", time.Now().UTC()).Delete(&SessionModel{}).Error)
}

// --- QRCard CRUD ---

func (s *postgresStore) CreateQRCard(ctx context.Context, c *store.QRCard) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(cardToModel(c)).Error; err != nil {
		return mapDBError(err)
	}
	return nil
}

func (s *postgresStore) GetQRCard(ctx context.Context, id string) (*store.QRCard, error) {
	var model QRCardModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return cardFromModel(&model), nil
}

func (s *postgresStore) GetQRCardByPublicID(ctx context.Context, publicID string) (*store.QRCard, error) {
	var model QRCardModel
	if err := s.db.WithContext(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return cardFromModel(&model), nil
}

func (s *postgresStore) ListQRCardsByUser(ctx context.Context, userID string) ([]*store.QRCard, error) {
	var models []QRCardModel
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapDBError(err)
	}
	out := make([]*store.QRCard, 0, len(models))
	for i := range models {
		out = append(out, cardFromModel(&models[i]))
	}
	return out, nil
}

func (s *postgresStore) UpdateQRCard(ctx context.Context, c *store.QRCard) error {
	c.UpdatedAt = time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&QRCardModel{}).Where("id = ?", c.ID).
		Updates(map[string]any{
			"label":      c.Label,
			"is_active":  c.IsActive,
			"updated_at": c.UpdatedAt,
		})
	if err := mapDBError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *postgresStore) DeleteQRCard(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&QRCardModel{})
	if err := mapDBError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Interactions ---

func (s *postgresStore) CreateInteraction(ctx context.Context, i *store.Interaction) error {
	if i.OccurredAt.IsZero() {
		i.OccurredAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(interactionToModel(i)).Error; err != nil {
		return mapDBError(err)
	}
	return nil
}

type interactionRow struct {
	ID           string
	QRCardID     string
	Type         string
	OccurredAt   time.Time
	Referrer     string
	UserAgent    string
	CardLabel    string
	CardPublicID string
}

func (s *postgresStore) ListInteractionsByUser(ctx context.Context, userID string, limit int, cursor string) ([]*store.Interaction, error) {
	q := s.db.WithContext(ctx).
		Table("interactions i").
		Select(`i.id, i.qr_card_id, i.type, i.occurred_at, i.referrer, i.user_agent,
			q.label AS card_label, q.public_id AS card_public_id`).
		Joins("JOIN qr_cards q ON q.id = i.qr_card_id").
		Where("q.user_id = ?", userID).
		Order("i.occurred_at DESC, i.id DESC").
		Limit(limit)

	if cursor != "" {
		q = q.Where(`(i.occurred_at, i.id) < (SELECT occurred_at, id FROM interactions WHERE id = ?)`, cursor)
	}

	var rows []interactionRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, mapDBError(err)
	}

	out := make([]*store.Interaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, &store.Interaction{
			ID:         r.ID,
			QRCardID:   r.QRCardID,
			Type:       store.InteractionType(r.Type),
			OccurredAt: r.OccurredAt,
			Referrer:   r.Referrer,
			UserAgent:  r.UserAgent,
			Card: &store.QRCardSummary{
				ID:       r.QRCardID,
				Label:    r.CardLabel,
				PublicID: r.CardPublicID,
			},
		})
	}
	return out, nil
}

func (s *postgresStore) CountQRCardsByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&QRCardModel{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}

func (s *postgresStore) CountInteractionsByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Table("interactions i").
		Joins("JOIN qr_cards q ON q.id = i.qr_card_id").
		Where("q.user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}

// --- Analytics ---

func (s *postgresStore) InteractionSeries(ctx context.Context, userID string, since time.Time) ([]store.ActivityBucket, error) {
	type row struct {
		Day   time.Time
		Type  string
		Count int
	}
	var rows []row
	err := s.db.WithContext(ctx).Raw(`
		SELECT date_trunc('day', i.occurred_at) AS day, i.type AS type, COUNT(*)::int AS count
		FROM interactions i
		JOIN qr_cards q ON q.id = i.qr_card_id
		WHERE q.user_id = ? AND i.occurred_at >= ?
		GROUP BY day, type
		ORDER BY day ASC`,
		userID, since,
	).Scan(&rows).Error
	if err != nil {
		return nil, mapDBError(err)
	}
	out := make([]store.ActivityBucket, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.ActivityBucket{Day: r.Day, Type: store.InteractionType(r.Type), Count: r.Count})
	}
	return out, nil
}

func (s *postgresStore) TopQRCardsByScans(ctx context.Context, userID string, limit int) ([]store.QRCardScans, error) {
	var rows []store.QRCardScans
	err := s.db.WithContext(ctx).Raw(`
		SELECT q.id AS qr_card_id, q.label AS label, q.public_id AS public_id, COUNT(*)::int AS scans
		FROM interactions i
		JOIN qr_cards q ON q.id = i.qr_card_id
		WHERE q.user_id = ? AND i.type = 'SCAN'
		GROUP BY q.id, q.label, q.public_id
		ORDER BY scans DESC
		LIMIT ?`,
		userID, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, mapDBError(err)
	}
	return rows, nil
}

func (s *postgresStore) QRCardUsageByUser(ctx context.Context, userID string) ([]store.QRCardUsage, error) {
	var rows []store.QRCardUsage
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			q.id AS id,
			q.label AS label,
			q.public_id AS public_id,
			q.is_active AS is_active,
			q.created_at AS created_at,
			q.updated_at AS updated_at,
			COALESCE(SUM(CASE WHEN i.type = 'SCAN' THEN 1 ELSE 0 END), 0)::int AS scans,
			COALESCE(SUM(CASE WHEN i.type = 'CONTACT' THEN 1 ELSE 0 END), 0)::int AS contacts,
			MAX(i.occurred_at) AS last_activity_at
		FROM qr_cards q
		LEFT JOIN interactions i ON i.qr_card_id = q.id
		WHERE q.user_id = ?
		GROUP BY q.id, q.label, q.public_id, q.is_active, q.created_at, q.updated_at
		ORDER BY q.created_at DESC`,
		userID,
	).Scan(&rows).Error
	if err != nil {
		return nil, mapDBError(err)
	}
	return rows, nil
}

// --- BusinessProfile CRUD ---

func (s *postgresStore) CreateBusinessProfile(ctx context.Context, b *store.BusinessProfile) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(businessToModel(b)).Error; err != nil {
		return mapDBError(err)
	}
	return nil
}

func (s *postgresStore) GetBusinessProfile(ctx context.Context, id string) (*store.BusinessProfile, error) {
	var model BusinessProfileModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return businessFromModel(&model), nil
}

func (s *postgresStore) GetNewestBusinessProfileByOwner(ctx context.Context, ownerID string) (*store.BusinessProfile, error) {
	var model BusinessProfileModel
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").First(&model).Error; err != nil {
		return nil, mapDBError(err)
	}
	return businessFromModel(&model), nil
}

func (s *postgresStore) ListBusinessProfiles(ctx context.Context, f store.BusinessFilter) ([]*store.BusinessProfile, error) {
	q := s.db.WithContext(ctx).Model(&BusinessProfileModel{})

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if f.Industry != "" {
		q = q.Where("industry ILIKE ?", f.Industry)
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("starting_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("starting_price <= ?", *f.MaxPrice)
	}
	if f.Cursor != "" {
		q = q.Where(`(created_at, id) < (SELECT created_at, id FROM business_profiles WHERE id = ?)`, f.Cursor)
	}

	var models []BusinessProfileModel
	if err := q.Order("created_at DESC, id DESC").Limit(f.Limit).Find(&models).Error; err != nil {
		return nil, mapDBError(err)
	}
	out := make([]*store.BusinessProfile, 0, len(models))
	for i := range models {
		out = append(out, businessFromModel(&models[i]))
	}
	return out, nil
}

func (s *postgresStore) UpdateBusinessProfile(ctx context.Context, b *store.BusinessProfile) error {
	b.UpdatedAt = time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&BusinessProfileModel{}).Where("id = ?", b.ID).
		Updates(map[string]any{
			"name":           b.Name,
			"description":    b.Description,
			"industry":       b.Industry,
			"location":       b.Location,
			"starting_price": b.StartingPrice,
			"website":        b.Website,
			"updated_at":     b.UpdatedAt,
		})
	if err := mapDBError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *postgresStore) DeleteBusinessProfile(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&BusinessProfileModel{})
	if err := mapDBError(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
