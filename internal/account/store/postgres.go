package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"doorway/internal/account/models"
	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// PostgresProfileStore persists accounts in PostgreSQL.
type PostgresProfileStore struct {
	db *sql.DB
}

// NewPostgresProfileStore constructs a PostgreSQL-backed profile store.
func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Save(ctx context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	query := `
		INSERT INTO accounts (id, email, role, admin_level, territory_id, founding_member, verified, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			admin_level = EXCLUDED.admin_level,
			territory_id = EXCLUDED.territory_id,
			founding_member = EXCLUDED.founding_member,
			verified = EXCLUDED.verified
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(account.ID),
		account.Email,
		string(account.Role),
		string(account.AdminLevel),
		account.TerritoryID,
		account.FoundingMember,
		account.Verified,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account email taken: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *PostgresProfileStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	query := `
		SELECT id, email, role, admin_level, COALESCE(territory_id, ''), founding_member, verified, created_at
		FROM accounts
		WHERE id = $1
	`
	return scanAccount(s.db.QueryRowContext(ctx, query, uuid.UUID(accountID)))
}

func (s *PostgresProfileStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, email, role, admin_level, COALESCE(territory_id, ''), founding_member, verified, created_at
		FROM accounts
		WHERE lower(email) = lower($1)
	`
	return scanAccount(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresProfileStore) Delete(ctx context.Context, accountID id.AccountID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, uuid.UUID(accountID))
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresProfileStore) SetVerified(ctx context.Context, accountID id.AccountID, verified bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET verified = $2 WHERE id = $1`,
		uuid.UUID(accountID), verified,
	)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		account   models.Account
		accountID uuid.UUID
		role      string
		level     string
	)
	err := row.Scan(&accountID, &account.Email, &role, &level,
		&account.TerritoryID, &account.FoundingMember, &account.Verified, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	account.ID = id.AccountID(accountID)
	account.Role = models.Role(role)
	account.AdminLevel = models.AdminLevel(level)
	return &account, nil
}

// PostgresListingStore persists listings and media in PostgreSQL.
type PostgresListingStore struct {
	db *sql.DB
}

// NewPostgresListingStore constructs a PostgreSQL-backed listing store.
func NewPostgresListingStore(db *sql.DB) *PostgresListingStore {
	return &PostgresListingStore{db: db}
}

func (s *PostgresListingStore) Save(ctx context.Context, listing *Listing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO listings (id, owner_id, title, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`,
		uuid.UUID(listing.ID), uuid.UUID(listing.OwnerID), listing.Title, listing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save listing: %w", err)
	}
	return nil
}

func (s *PostgresListingStore) AddMedia(ctx context.Context, item *MediaItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO listing_media (id, listing_id, url) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		item.ID, uuid.UUID(item.ListingID), item.URL,
	)
	if err != nil {
		return fmt.Errorf("add media: %w", err)
	}
	return nil
}

func (s *PostgresListingStore) DeleteMediaByOwner(ctx context.Context, ownerID id.AccountID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM listing_media
		 WHERE listing_id IN (SELECT id FROM listings WHERE owner_id = $1)`,
		uuid.UUID(ownerID),
	)
	if err != nil {
		return 0, fmt.Errorf("delete listing media: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgresListingStore) DeleteByOwner(ctx context.Context, ownerID id.AccountID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM listings WHERE owner_id = $1`, uuid.UUID(ownerID))
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", err)
	}
	return res.RowsAffected()
}

// PostgresFavoriteStore persists favorites in PostgreSQL.
type PostgresFavoriteStore struct {
	db *sql.DB
}

// NewPostgresFavoriteStore constructs a PostgreSQL-backed favorite store.
func NewPostgresFavoriteStore(db *sql.DB) *PostgresFavoriteStore {
	return &PostgresFavoriteStore{db: db}
}

func (s *PostgresFavoriteStore) Save(ctx context.Context, favorite *Favorite) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (account_id, listing_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		uuid.UUID(favorite.AccountID), uuid.UUID(favorite.ListingID),
	)
	if err != nil {
		return fmt.Errorf("save favorite: %w", err)
	}
	return nil
}

func (s *PostgresFavoriteStore) SaveLegacy(ctx context.Context, email string, listingID id.ListingID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO legacy_favorites (email, listing_id) VALUES (lower($1), $2)
		 ON CONFLICT DO NOTHING`,
		email, uuid.UUID(listingID),
	)
	if err != nil {
		return fmt.Errorf("save legacy favorite: %w", err)
	}
	return nil
}

func (s *PostgresFavoriteStore) DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE account_id = $1`, uuid.UUID(accountID))
	if err != nil {
		return 0, fmt.Errorf("delete favorites: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgresFavoriteStore) DeleteLegacyByEmail(ctx context.Context, email string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM legacy_favorites WHERE email = lower($1)`, email)
	if err != nil {
		return 0, fmt.Errorf("delete legacy favorites: %w", err)
	}
	return res.RowsAffected()
}

// PostgresDraftStore persists drafts in PostgreSQL.
type PostgresDraftStore struct {
	db *sql.DB
}

// NewPostgresDraftStore constructs a PostgreSQL-backed draft store.
func NewPostgresDraftStore(db *sql.DB) *PostgresDraftStore {
	return &PostgresDraftStore{db: db}
}

func (s *PostgresDraftStore) Save(ctx context.Context, draft *Draft) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (id, account_id, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		draft.ID, uuid.UUID(draft.AccountID), draft.Payload,
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *PostgresDraftStore) DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE account_id = $1`, uuid.UUID(accountID))
	if err != nil {
		return 0, fmt.Errorf("delete drafts: %w", err)
	}
	return res.RowsAffected()
}

// PostgresInquiryStore persists inquiries in PostgreSQL.
type PostgresInquiryStore struct {
	db *sql.DB
}

// NewPostgresInquiryStore constructs a PostgreSQL-backed inquiry store.
func NewPostgresInquiryStore(db *sql.DB) *PostgresInquiryStore {
	return &PostgresInquiryStore{db: db}
}

func (s *PostgresInquiryStore) Save(ctx context.Context, inquiry *Inquiry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inquiries (id, account_id, listing_id, message) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		inquiry.ID, uuid.UUID(inquiry.AccountID), uuid.UUID(inquiry.ListingID), inquiry.Message,
	)
	if err != nil {
		return fmt.Errorf("save inquiry: %w", err)
	}
	return nil
}

func (s *PostgresInquiryStore) DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM inquiries WHERE account_id = $1`, uuid.UUID(accountID))
	if err != nil {
		return 0, fmt.Errorf("delete inquiries: %w", err)
	}
	return res.RowsAffected()
}

// isUniqueViolation checks for PostgreSQL unique constraint violations (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
