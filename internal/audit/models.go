package audit

import (
	"time"

	id "doorway/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. Events are append-only;
// nothing in this subsystem updates or deletes them.
type Event struct {
	Timestamp time.Time
	ActorID   id.AccountID
	TargetID  id.AccountID
	Subject   string
	Action    string
	Decision  string
	Reason    string
	Email     string
	RequestID string
	// Detail carries the serialized per-resource outcome for deletion runs.
	Detail string
}

type AuditEvent string

const (
	EventAccountDeleted      AuditEvent = "account_deleted"
	EventDeletionDenied      AuditEvent = "deletion_denied"
	EventOrphanCleaned       AuditEvent = "orphan_identity_cleaned"
	EventCounterReleased     AuditEvent = "promo_counter_released"
	EventAgentVerified       AuditEvent = "agent_verified"
	EventAgentVerifyRevoked  AuditEvent = "agent_verification_revoked"
	EventVerificationDenied  AuditEvent = "verification_denied"
	EventAuthorizationDenied AuditEvent = "authorization_denied"
)
