package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "doorway/pkg/domain"
)

// PostgresStore persists audit events in PostgreSQL. Append-only: no update
// or delete statements exist here on purpose.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events
			(ts, actor_id, target_id, subject, action, decision, reason, email, request_id, detail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		event.Timestamp,
		uuid.UUID(event.ActorID),
		uuid.UUID(event.TargetID),
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.Email,
		event.RequestID,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actorID string) ([]Event, error) {
	parsed, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("parse actor id: %w", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, actor_id, target_id, subject, action, decision, reason, email, request_id, detail
		 FROM audit_events WHERE actor_id = $1 ORDER BY ts`,
		parsed,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events by actor: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, actor_id, target_id, subject, action, decision, reason, email, request_id, detail
		 FROM audit_events ORDER BY ts DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			event            Event
			actorID, tgtID   uuid.UUID
		)
		if err := rows.Scan(&event.Timestamp, &actorID, &tgtID, &event.Subject,
			&event.Action, &event.Decision, &event.Reason, &event.Email,
			&event.RequestID, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ActorID = id.AccountID(actorID)
		event.TargetID = id.AccountID(tgtID)
		events = append(events, event)
	}
	return events, rows.Err()
}
