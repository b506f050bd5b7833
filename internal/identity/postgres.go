package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// PostgresProvider persists identity records in PostgreSQL. Sessions hold a
// RESTRICT foreign key onto identities, so a plain Delete fails with a
// foreign-key violation while sessions exist; ForceDelete removes sessions
// in the same statement batch.
type PostgresProvider struct {
	db *sql.DB
}

// NewPostgresProvider constructs a PostgreSQL-backed identity provider.
func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func (p *PostgresProvider) Save(ctx context.Context, record *Record) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO identities (account_id, email, password_hash, created_at)
		 VALUES ($1, lower($2), $3, $4)
		 ON CONFLICT (account_id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash`,
		uuid.UUID(record.AccountID), record.Email, record.PasswordHash, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (p *PostgresProvider) FindByID(ctx context.Context, accountID id.AccountID) (*Record, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT account_id, email, password_hash, created_at FROM identities WHERE account_id = $1`,
		uuid.UUID(accountID),
	)
	return scanRecord(row)
}

func (p *PostgresProvider) FindByEmail(ctx context.Context, email string) (*Record, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT account_id, email, password_hash, created_at FROM identities WHERE email = lower($1)`,
		email,
	)
	return scanRecord(row)
}

func (p *PostgresProvider) ExistsByID(ctx context.Context, accountID id.AccountID) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM identities WHERE account_id = $1)`,
		uuid.UUID(accountID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("identity exists: %w", err)
	}
	return exists, nil
}

func (p *PostgresProvider) Delete(ctx context.Context, accountID id.AccountID) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM identities WHERE account_id = $1`, uuid.UUID(accountID))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("identity has dependent sessions: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("delete identity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (p *PostgresProvider) ForceDelete(ctx context.Context, accountID id.AccountID) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin force delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE account_id = $1`, uuid.UUID(accountID)); err != nil {
		return fmt.Errorf("force delete sessions: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM identities WHERE account_id = $1`, uuid.UUID(accountID))
	if err != nil {
		return fmt.Errorf("force delete identity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
	}
	return tx.Commit()
}

func (p *PostgresProvider) InvalidateSessions(ctx context.Context, accountID id.AccountID) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE account_id = $1`, uuid.UUID(accountID))
	if err != nil {
		return 0, fmt.Errorf("invalidate sessions: %w", err)
	}
	return res.RowsAffected()
}

func scanRecord(row *sql.Row) (*Record, error) {
	var (
		record    Record
		accountID uuid.UUID
	)
	err := row.Scan(&accountID, &record.Email, &record.PasswordHash, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	record.AccountID = id.AccountID(accountID)
	return &record, nil
}

// isForeignKeyViolation checks for PostgreSQL FK violations (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
