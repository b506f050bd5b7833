package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// InMemoryProvider stores identity records in memory for tests and dev mode.
// It mimics the production store's referential behavior: a plain Delete is
// refused while the identity still has live sessions.
type InMemoryProvider struct {
	mu       sync.RWMutex
	records  map[id.AccountID]*Record
	sessions map[id.AccountID][]Session
}

// NewInMemoryProvider constructs an empty in-memory identity provider.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		records:  make(map[id.AccountID]*Record),
		sessions: make(map[id.AccountID][]Session),
	}
}

func (p *InMemoryProvider) Save(_ context.Context, record *Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *record
	p.records[record.AccountID] = &cp
	return nil
}

// AddSession attaches a live session to an identity. Test and seeding hook;
// the production login flow lives outside this subsystem.
func (p *InMemoryProvider) AddSession(accountID id.AccountID, session Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[accountID] = append(p.sessions[accountID], session)
}

func (p *InMemoryProvider) FindByID(_ context.Context, accountID id.AccountID) (*Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if record, ok := p.records[accountID]; ok {
		cp := *record
		return &cp, nil
	}
	return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

func (p *InMemoryProvider) FindByEmail(_ context.Context, email string) (*Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, record := range p.records {
		if strings.EqualFold(record.Email, email) {
			cp := *record
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

func (p *InMemoryProvider) ExistsByID(_ context.Context, accountID id.AccountID) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.records[accountID]
	return ok, nil
}

func (p *InMemoryProvider) Delete(_ context.Context, accountID id.AccountID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.records[accountID]; !ok {
		return fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
	}
	if len(p.sessions[accountID]) > 0 {
		return fmt.Errorf("identity has active sessions: %w", sentinel.ErrConflict)
	}
	delete(p.records, accountID)
	return nil
}

func (p *InMemoryProvider) ForceDelete(_ context.Context, accountID id.AccountID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.records[accountID]; !ok {
		return fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
	}
	delete(p.records, accountID)
	delete(p.sessions, accountID)
	return nil
}

func (p *InMemoryProvider) InvalidateSessions(_ context.Context, accountID id.AccountID) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	revoked := int64(len(p.sessions[accountID]))
	delete(p.sessions, accountID)
	return revoked, nil
}
