// Package identity is the boundary to the credential store. Profile data
// lives in the account store; this store holds login records and their
// sessions, and can refuse plain deletes while sessions are live - hence
// the ForceDelete escape hatch and session invalidation.
package identity

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	dErrors "doorway/pkg/domain-errors"
	id "doorway/pkg/domain"
)

// Record is a credential-store entry for one account.
type Record struct {
	AccountID    id.AccountID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewRecord builds a credential record, hashing the password with bcrypt.
func NewRecord(accountID id.AccountID, email, password string) (*Record, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return &Record{
		AccountID:    accountID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// VerifyPassword checks a candidate password against the stored hash.
func (r *Record) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)) == nil
}

// Session is a live login attached to an identity record.
type Session struct {
	ID        string
	AccountID id.AccountID
	CreatedAt time.Time
}

// Provider is the consumed contract of the identity store.
//
// Error Contract: Find methods return sentinel.ErrNotFound (wrapped) for
// absent records. Delete may fail with sentinel.ErrConflict while sessions
// or referential locks are held; InvalidateSessions then ForceDelete are
// the documented fallbacks.
type Provider interface {
	Save(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, accountID id.AccountID) (*Record, error)
	FindByEmail(ctx context.Context, email string) (*Record, error)
	ExistsByID(ctx context.Context, accountID id.AccountID) (bool, error)
	Delete(ctx context.Context, accountID id.AccountID) error
	// ForceDelete removes the record and anything attached to it,
	// bypassing session locks. Last-resort variant.
	ForceDelete(ctx context.Context, accountID id.AccountID) error
	// InvalidateSessions revokes all live sessions for the identity and
	// returns how many were revoked.
	InvalidateSessions(ctx context.Context, accountID id.AccountID) (int64, error)
}
