package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"doorway/internal/account/models"
	"doorway/internal/account/permission"
	"doorway/internal/audit"
	"doorway/internal/promo"
	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// DeleteAccount runs the full gated deletion protocol for a target
// account: resolve the actor's grant, enforce the protected-account and
// territory rules, cascade through every dependent resource, remove the
// profile and credential records, and release any founding-tier promo
// redemption. The returned result carries per-resource outcomes; the
// caller maps its aggregate status onto the response.
func (s *Service) DeleteAccount(ctx context.Context, actorID, targetID id.AccountID) (*models.DeletionResult, error) {
	ctx, span := s.tracer.Start(ctx, "account.delete")
	defer span.End()
	span.SetAttributes(attribute.String("target_id", targetID.String()))
	started := time.Now()

	actor, err := s.profiles.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.auditDenied(ctx, audit.EventDeletionDenied, actorID, targetID, "actor_unknown")
			return nil, errDeletionForbidden("actor has no account record")
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}

	scope, actorTerritory := s.deletionGrant(actor)
	if scope == permission.ScopeNone {
		s.auditDenied(ctx, audit.EventDeletionDenied, actorID, targetID, "insufficient_privilege")
		return nil, errDeletionForbidden("account deletion requires admin privileges")
	}

	target, err := s.profiles.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.cleanupOrphan(ctx, actor, targetID, scope, started)
		}
		return nil, fmt.Errorf("load target: %w", err)
	}

	if s.policy.IsProtected(target.Email) {
		s.auditDenied(ctx, audit.EventDeletionDenied, actorID, targetID, "protected_account")
		return nil, errProtectedAccount()
	}

	if !scopeAllows(scope, actorTerritory, target.TerritoryID) {
		s.auditDenied(ctx, audit.EventDeletionDenied, actorID, targetID, "territory_mismatch")
		return nil, errDeletionForbidden("target account is outside the actor's territory")
	}

	result := models.NewDeletionResult(targetID)

	// Snapshot the founding-tier redemption before anything is removed;
	// after the cascade the linking rows are gone and the counter could
	// never be released.
	redemption := s.snapshotRedemption(ctx, target)

	s.runCascade(ctx, target, result)

	if err := s.profiles.Delete(ctx, targetID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "profile delete failed",
			"target_id", targetID.String(),
			"error", err,
		)
	} else {
		result.Profile = true
	}

	idOutcome := s.deleteIdentity(ctx, targetID)
	result.Identity = idOutcome.deleted
	result.IdentityLayer = idOutcome.layer
	if s.metrics != nil {
		s.metrics.IncrementIdentityLayer(idOutcome.layer)
	}

	if redemption != nil && (result.Profile || result.Identity) {
		s.releaseRedemption(ctx, actor, target, redemption, result)
	}

	s.finishRun(ctx, actor, target.Email, result, started)
	return result, nil
}

// deletionGrant resolves the actor's deletion scope. The protected
// identity acts with the full grant even without an admin level.
func (s *Service) deletionGrant(actor *models.Account) (permission.Scope, string) {
	if s.policy.IsProtected(actor.Email) {
		return permission.ScopeAll, ""
	}
	return permission.DeletionScope(actor)
}

func scopeAllows(scope permission.Scope, actorTerritory, targetTerritory string) bool {
	set := permission.Set{Scope: scope, TerritoryID: actorTerritory}
	return set.AllowsAccount(targetTerritory)
}

// snapshotRedemption captures the target's founding-tier redemption, if
// any. Snapshot failure is logged and the deletion proceeds; losing a
// counter decrement is recoverable, blocking a deletion is not.
func (s *Service) snapshotRedemption(ctx context.Context, target *models.Account) *promo.Redemption {
	if !target.FoundingMember {
		return nil
	}
	redemption, err := s.promo.Snapshot(ctx, target.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "promo snapshot failed",
			"target_id", target.ID.String(),
			"error", err,
		)
		return nil
	}
	return redemption
}

func (s *Service) releaseRedemption(ctx context.Context, actor *models.Account, target *models.Account, redemption *promo.Redemption, result *models.DeletionResult) {
	remaining, err := s.promo.Release(ctx, redemption)
	if err != nil {
		s.logger.ErrorContext(ctx, "promo counter release failed",
			"target_id", target.ID.String(),
			"code_id", redemption.CodeID.String(),
			"error", err,
		)
		return
	}
	result.FoundingMember = true
	if s.metrics != nil {
		s.metrics.CounterReleases.Inc()
	}
	s.emitAudit(ctx, audit.Event{
		ActorID:  actor.ID,
		TargetID: target.ID,
		Subject:  "promo_code",
		Action:   string(audit.EventCounterReleased),
		Decision: "released",
		Detail:   fmt.Sprintf(`{"code_id":%q,"remaining":%d}`, redemption.CodeID.String(), remaining),
	})
}

// cleanupOrphan handles targets with a credential record but no profile.
// These accumulate when an earlier deletion removed the profile and then
// lost the identity step. Only all-territory actors may clean them up:
// an orphan has no territory to scope against.
func (s *Service) cleanupOrphan(ctx context.Context, actor *models.Account, targetID id.AccountID, scope permission.Scope, started time.Time) (*models.DeletionResult, error) {
	record, err := s.ids.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errAccountNotFound(err)
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}

	if s.policy.IsProtected(record.Email) {
		s.auditDenied(ctx, audit.EventDeletionDenied, actor.ID, targetID, "protected_account")
		return nil, errProtectedAccount()
	}
	if scope != permission.ScopeAll {
		s.auditDenied(ctx, audit.EventDeletionDenied, actor.ID, targetID, "orphan_requires_global_scope")
		return nil, errDeletionForbidden("orphan cleanup requires an all-territory grant")
	}

	result := models.NewDeletionResult(targetID)
	result.OrphanCleanup = true

	idOutcome := s.deleteIdentity(ctx, targetID)
	result.Identity = idOutcome.deleted
	result.IdentityLayer = idOutcome.layer
	if s.metrics != nil {
		s.metrics.IncrementIdentityLayer(idOutcome.layer)
		if idOutcome.deleted {
			s.metrics.OrphanCleanups.Inc()
		}
	}

	s.emitAudit(ctx, audit.Event{
		ActorID:  actor.ID,
		TargetID: targetID,
		Subject:  "identity",
		Action:   string(audit.EventOrphanCleaned),
		Decision: string(result.Outcome()),
		Email:    record.Email,
	})
	s.finishMetrics(result, started)
	return result, nil
}

// finishRun aggregates metrics and the final audit record for a full run.
func (s *Service) finishRun(ctx context.Context, actor *models.Account, targetEmail string, result *models.DeletionResult, started time.Time) {
	outcome := result.Outcome()
	s.logger.InfoContext(ctx, "account deletion finished",
		"target_id", result.TargetID.String(),
		"outcome", string(outcome),
		"identity_layer", result.IdentityLayer,
		"failed_steps", result.FailedSteps(),
	)
	s.emitAudit(ctx, audit.Event{
		ActorID:  actor.ID,
		TargetID: result.TargetID,
		Subject:  "account",
		Action:   string(audit.EventAccountDeleted),
		Decision: string(outcome),
		Email:    targetEmail,
		Detail:   deletionDetail(result.Steps),
	})
	s.finishMetrics(result, started)
}

func (s *Service) finishMetrics(result *models.DeletionResult, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementDeletion(string(result.Outcome()))
	s.metrics.ObserveDeletionDuration(time.Since(started).Seconds())
}
