// Package admin provides operator-facing monitoring endpoints, gated by
// the shared admin token rather than account-level authorization.
package admin

import (
	"context"
	"time"

	"doorway/internal/audit"
)

// Service aggregates operator-facing views over the audit trail.
type Service struct {
	audit audit.Store
}

// NewService creates a new admin service.
func NewService(auditStore audit.Store) *Service {
	return &Service{audit: auditStore}
}

// Stats summarizes recent subsystem activity for dashboards.
type Stats struct {
	RecentEvents    int       `json:"recent_events"`
	Deletions       int       `json:"deletions"`
	Denials         int       `json:"denials"`
	OrphanCleanups  int       `json:"orphan_cleanups"`
	BadgeToggles    int       `json:"badge_toggles"`
	CounterReleases int       `json:"counter_releases"`
	Timestamp       time.Time `json:"timestamp"`
}

// statsWindow bounds how much trail a stats call scans.
const statsWindow = 500

// GetStats derives counters from the recent audit trail.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	events, err := s.audit.ListRecent(ctx, statsWindow)
	if err != nil {
		return nil, err
	}

	stats := &Stats{RecentEvents: len(events), Timestamp: time.Now().UTC()}
	for _, event := range events {
		switch audit.AuditEvent(event.Action) {
		case audit.EventAccountDeleted:
			stats.Deletions++
		case audit.EventDeletionDenied, audit.EventVerificationDenied, audit.EventAuthorizationDenied:
			stats.Denials++
		case audit.EventOrphanCleaned:
			stats.OrphanCleanups++
		case audit.EventAgentVerified, audit.EventAgentVerifyRevoked:
			stats.BadgeToggles++
		case audit.EventCounterReleased:
			stats.CounterReleases++
		}
	}
	return stats, nil
}

// GetRecentAuditEvents returns the newest entries in the trail.
func (s *Service) GetRecentAuditEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.audit.ListRecent(ctx, limit)
}

// GetActorAuditEvents returns the trail entries recorded for one actor.
func (s *Service) GetActorAuditEvents(ctx context.Context, actorID string) ([]audit.Event, error) {
	return s.audit.ListByActor(ctx, actorID)
}
