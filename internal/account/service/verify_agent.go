package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"doorway/internal/account/models"
	"doorway/internal/account/permission"
	"doorway/internal/audit"
	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// SetAgentVerification toggles the trust badge on an agent account.
// Super admins may verify any agent; owner admins only agents in their
// own territory. Non-agent accounts and the protected account are never
// valid targets.
func (s *Service) SetAgentVerification(ctx context.Context, actorID, targetID id.AccountID, verified bool) (*models.Account, error) {
	actor, target, err := s.loadActorAndTarget(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if reason := s.verificationDenial(actor, target); reason != "" {
		s.auditDenied(ctx, audit.EventVerificationDenied, actorID, targetID, reason)
		return nil, errVerificationForbidden(verificationDenialMessage(reason))
	}

	if err := s.profiles.SetVerified(ctx, targetID, verified); err != nil {
		return nil, fmt.Errorf("set verified: %w", err)
	}
	target.Verified = verified

	action := audit.EventAgentVerified
	if !verified {
		action = audit.EventAgentVerifyRevoked
	}
	if s.metrics != nil {
		s.metrics.IncrementVerification(string(action))
	}
	s.emitAudit(ctx, audit.Event{
		ActorID:  actorID,
		TargetID: targetID,
		Subject:  "agent",
		Action:   string(action),
		Decision: "applied",
		Email:    target.Email,
	})
	s.logger.InfoContext(ctx, "agent verification updated",
		"target_id", targetID.String(),
		"verified", verified,
	)
	return target, nil
}

// VerificationStatus reports the current badge state of an account and
// whether the requesting actor would be permitted to toggle it. Reading
// never requires a grant; only the toggle flag reflects authorization.
func (s *Service) VerificationStatus(ctx context.Context, actorID, targetID id.AccountID) (verified, canToggle bool, err error) {
	actor, target, err := s.loadActorAndTarget(ctx, actorID, targetID)
	if err != nil {
		return false, false, err
	}
	return target.Verified, s.verificationDenial(actor, target) == "", nil
}

// verificationDenial returns the reason the actor may not toggle the
// target's badge, or the empty string when the toggle is permitted.
func (s *Service) verificationDenial(actor, target *models.Account) string {
	scope, actorTerritory := permission.AgentManagementScope(actor)
	if s.policy.IsProtected(actor.Email) {
		scope, actorTerritory = permission.ScopeAll, ""
	}
	switch {
	case scope == permission.ScopeNone:
		return "insufficient_privilege"
	case s.policy.IsProtected(target.Email):
		return "protected_account"
	case !target.IsAgent():
		return "not_an_agent"
	case !scopeAllows(scope, actorTerritory, target.TerritoryID):
		return "territory_mismatch"
	}
	return ""
}

func verificationDenialMessage(reason string) string {
	switch reason {
	case "protected_account":
		return "protected account cannot be modified"
	case "not_an_agent":
		return "verification badges apply to agent accounts only"
	case "territory_mismatch":
		return "target agent is outside the actor's territory"
	}
	return "agent verification requires admin privileges"
}

// loadActorAndTarget fetches both profiles concurrently; the two lookups
// are independent and the handler path is latency-sensitive.
func (s *Service) loadActorAndTarget(ctx context.Context, actorID, targetID id.AccountID) (*models.Account, *models.Account, error) {
	var (
		actor  *models.Account
		target *models.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.profiles.FindByID(gctx, actorID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errVerificationForbidden("actor has no account record")
			}
			return fmt.Errorf("load actor: %w", err)
		}
		actor = a
		return nil
	})
	g.Go(func() error {
		t, err := s.profiles.FindByID(gctx, targetID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errAccountNotFound(err)
			}
			return fmt.Errorf("load target: %w", err)
		}
		target = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}
