package service

import (
	"context"
	"encoding/json"
	"time"

	"doorway/internal/audit"
	id "doorway/pkg/domain"
	"doorway/pkg/requestcontext"
)

// emitAudit hands an event to the async publisher when one is configured.
// Publishing is best-effort; a full buffer never blocks the request path.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}

// auditDenied records an authorization denial against a target.
func (s *Service) auditDenied(ctx context.Context, action audit.AuditEvent, actorID, targetID id.AccountID, reason string) {
	if s.metrics != nil {
		s.metrics.IncrementAuthzDenied(reason)
	}
	s.emitAudit(ctx, audit.Event{
		ActorID:  actorID,
		TargetID: targetID,
		Subject:  "account",
		Action:   string(action),
		Decision: "denied",
		Reason:   reason,
	})
}

// deletionDetail serializes the per-resource step outcomes for the audit
// trail. Marshal failure degrades to an empty detail rather than an error.
func deletionDetail(steps any) string {
	raw, err := json.Marshal(steps)
	if err != nil {
		return ""
	}
	return string(raw)
}
