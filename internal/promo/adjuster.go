package promo

import (
	"context"
	"errors"
	"log/slog"

	id "doorway/pkg/domain"
	"doorway/pkg/platform/sentinel"
)

// Adjuster releases an account's redemption and decrements the parent
// counter, at most once per redemption and never below zero. An absent
// redemption is a signal that a previous run already released it, so the
// adjuster skips the decrement instead of double-counting.
type Adjuster struct {
	codes       CodeStore
	redemptions RedemptionStore
	logger      *slog.Logger
}

// NewAdjuster constructs a counter adjuster.
func NewAdjuster(codes CodeStore, redemptions RedemptionStore, logger *slog.Logger) *Adjuster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adjuster{codes: codes, redemptions: redemptions, logger: logger}
}

// Snapshot fetches the redemption linked to an account before the cascade
// destroys the linkage. Returns nil without error when there is none.
func (a *Adjuster) Snapshot(ctx context.Context, accountID id.AccountID) (*Redemption, error) {
	redemption, err := a.redemptions.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return redemption, nil
}

// Release deletes the redemption record and decrements the associated
// counter by one, clamped at zero. A redemption that is already gone is a
// no-op success: the read-then-conditionally-decrement order keeps a
// concurrent or repeated run from pushing the counter down twice.
func (a *Adjuster) Release(ctx context.Context, redemption *Redemption) (int64, error) {
	if redemption == nil {
		return 0, nil
	}

	if err := a.redemptions.Delete(ctx, redemption.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			a.logger.InfoContext(ctx, "redemption already released, skipping decrement",
				"redemption_id", redemption.ID.String(),
				"account_id", redemption.AccountID.String(),
			)
			return 0, nil
		}
		return 0, err
	}

	newValue, err := a.codes.Decrement(ctx, redemption.CodeID)
	if err != nil {
		return 0, err
	}
	return newValue, nil
}
