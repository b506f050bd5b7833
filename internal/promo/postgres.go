package promo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// PostgresCodeStore persists promo codes in PostgreSQL.
type PostgresCodeStore struct {
	db *sql.DB
}

// NewPostgresCodeStore constructs a PostgreSQL-backed code store.
func NewPostgresCodeStore(db *sql.DB) *PostgresCodeStore {
	return &PostgresCodeStore{db: db}
}

func (s *PostgresCodeStore) Save(ctx context.Context, code *Code) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO promo_codes (id, code, redemptions) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET redemptions = EXCLUDED.redemptions`,
		uuid.UUID(code.ID), code.Code, code.Redemptions,
	)
	if err != nil {
		return fmt.Errorf("save promo code: %w", err)
	}
	return nil
}

func (s *PostgresCodeStore) FindByID(ctx context.Context, codeID id.PromoCodeID) (*Code, error) {
	var (
		code  Code
		rawID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, redemptions FROM promo_codes WHERE id = $1`,
		uuid.UUID(codeID),
	).Scan(&rawID, &code.Code, &code.Redemptions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("promo code not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find promo code: %w", err)
	}
	code.ID = id.PromoCodeID(rawID)
	return &code, nil
}

// Decrement atomically lowers the counter, clamped at zero in SQL so
// concurrent decrements cannot drive it negative. Absent codes are a no-op.
func (s *PostgresCodeStore) Decrement(ctx context.Context, codeID id.PromoCodeID) (int64, error) {
	var newValue int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE promo_codes
		 SET redemptions = GREATEST(redemptions - 1, 0)
		 WHERE id = $1
		 RETURNING redemptions`,
		uuid.UUID(codeID),
	).Scan(&newValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("decrement promo code: %w", err)
	}
	return newValue, nil
}

// PostgresRedemptionStore persists redemptions in PostgreSQL.
type PostgresRedemptionStore struct {
	db *sql.DB
}

// NewPostgresRedemptionStore constructs a PostgreSQL-backed redemption store.
func NewPostgresRedemptionStore(db *sql.DB) *PostgresRedemptionStore {
	return &PostgresRedemptionStore{db: db}
}

func (s *PostgresRedemptionStore) Save(ctx context.Context, redemption *Redemption) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO promo_redemptions (id, account_id, code_id, redeemed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		uuid.UUID(redemption.ID), uuid.UUID(redemption.AccountID),
		uuid.UUID(redemption.CodeID), redemption.RedeemedAt,
	)
	if err != nil {
		return fmt.Errorf("save redemption: %w", err)
	}
	return nil
}

func (s *PostgresRedemptionStore) FindByAccount(ctx context.Context, accountID id.AccountID) (*Redemption, error) {
	var (
		redemption           Redemption
		rawID, rawAcc, rawCd uuid.UUID
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, code_id, redeemed_at
		 FROM promo_redemptions WHERE account_id = $1`,
		uuid.UUID(accountID),
	).Scan(&rawID, &rawAcc, &rawCd, &redemption.RedeemedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("redemption not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find redemption: %w", err)
	}
	redemption.ID = id.RedemptionID(rawID)
	redemption.AccountID = id.AccountID(rawAcc)
	redemption.CodeID = id.PromoCodeID(rawCd)
	return &redemption, nil
}

func (s *PostgresRedemptionStore) Delete(ctx context.Context, redemptionID id.RedemptionID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM promo_redemptions WHERE id = $1`, uuid.UUID(redemptionID))
	if err != nil {
		return fmt.Errorf("delete redemption: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("redemption not found: %w", sentinel.ErrNotFound)
	}
	return nil
}
