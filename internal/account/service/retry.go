package service

import (
	"context"
	"errors"

	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// Identity deletion resolution layers, in escalation order.
const (
	identityLayerDirect       = "direct"
	identityLayerAbsent       = "verified_absent"
	identityLayerSessionSweep = "session_sweep"
	identityLayerForced       = "forced"
	identityLayerExhausted    = "exhausted"
)

// identityOutcome reports which layer of the deletion ladder resolved
// the credential record, or that every layer was exhausted.
type identityOutcome struct {
	deleted bool
	layer   string
	err     error
}

// deleteIdentity walks the layered deletion ladder for the credential
// record. Identity stores are historically the flakiest boundary here:
// live sessions hold references, replicas lag, and a plain delete can
// fail for a record that is already gone. Each layer escalates only
// after the previous one failed.
func (s *Service) deleteIdentity(ctx context.Context, accountID id.AccountID) identityOutcome {
	// Layer 1: plain delete.
	err := s.ids.Delete(ctx, accountID)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		return identityOutcome{deleted: true, layer: identityLayerDirect}
	}
	firstErr := err
	s.logger.WarnContext(ctx, "identity delete failed, escalating",
		"account_id", accountID.String(),
		"error", err,
	)

	// Layer 2: the delete may have raced a concurrent removal. If the
	// record is verifiably absent there is nothing left to do.
	exists, err := s.ids.ExistsByID(ctx, accountID)
	if err == nil && !exists {
		return identityOutcome{deleted: true, layer: identityLayerAbsent}
	}

	// Layer 3: live sessions commonly block deletion. Sweep them and
	// retry the delete once.
	invalidated, err := s.ids.InvalidateSessions(ctx, accountID)
	if err != nil {
		s.logger.WarnContext(ctx, "session invalidation failed",
			"account_id", accountID.String(),
			"error", err,
		)
	} else if invalidated > 0 {
		s.logger.InfoContext(ctx, "invalidated sessions before identity retry",
			"account_id", accountID.String(),
			"sessions", invalidated,
		)
	}
	err = s.ids.Delete(ctx, accountID)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		return identityOutcome{deleted: true, layer: identityLayerSessionSweep}
	}

	// Layer 4: force delete bypasses referential guards entirely.
	err = s.ids.ForceDelete(ctx, accountID)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		return identityOutcome{deleted: true, layer: identityLayerForced}
	}

	s.logger.ErrorContext(ctx, "identity deletion exhausted all layers",
		"account_id", accountID.String(),
		"first_error", firstErr,
		"final_error", err,
	)
	return identityOutcome{layer: identityLayerExhausted, err: err}
}
