// Package promo tracks promotional codes and the redemptions linking them to
// accounts. The founding-member tier is granted through such a redemption;
// removing the account releases its slot on the code's counter.
package promo

import (
	"context"
	"time"

	id "doorway/pkg/domain"
)

// Code is a counter-bearing promotional code. Redemptions counts how many
// accounts currently hold a slot; it never goes below zero.
type Code struct {
	ID          id.PromoCodeID
	Code        string
	Redemptions int64
}

// Redemption links an account to a promo code.
type Redemption struct {
	ID         id.RedemptionID
	AccountID  id.AccountID
	CodeID     id.PromoCodeID
	RedeemedAt time.Time
}

// CodeStore persists promo codes.
//
// Error Contract: FindByID returns sentinel.ErrNotFound (wrapped) for absent
// codes. Decrement clamps at zero and treats an absent code as a no-op,
// returning zero, because the orchestrator may re-run after partial failure.
type CodeStore interface {
	Save(ctx context.Context, code *Code) error
	FindByID(ctx context.Context, codeID id.PromoCodeID) (*Code, error)
	Decrement(ctx context.Context, codeID id.PromoCodeID) (int64, error)
}

// RedemptionStore persists redemption linkages.
type RedemptionStore interface {
	Save(ctx context.Context, redemption *Redemption) error
	FindByAccount(ctx context.Context, accountID id.AccountID) (*Redemption, error)
	Delete(ctx context.Context, redemptionID id.RedemptionID) error
}
