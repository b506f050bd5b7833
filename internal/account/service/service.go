// Package service hosts the authorization-gated account lifecycle
// operations: cascading account deletion and the agent verification gate.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"doorway/internal/account/models"
	"doorway/internal/account/permission"
	"doorway/internal/audit"
	"doorway/internal/identity"
	"doorway/internal/platform/metrics"
	"doorway/internal/promo"
	id "doorway/pkg/domain"
)

// ProfileStore defines the persistence interface for account records.
// Error Contract: Find methods return sentinel.ErrNotFound when the account doesn't exist.
type ProfileStore interface {
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Delete(ctx context.Context, accountID id.AccountID) error
	SetVerified(ctx context.Context, accountID id.AccountID, verified bool) error
}

// ListingStore removes listings and their media for a deleted owner.
type ListingStore interface {
	DeleteMediaByOwner(ctx context.Context, ownerID id.AccountID) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID id.AccountID) (int64, error)
}

// FavoriteStore removes both favorite linkages for a deleted account.
type FavoriteStore interface {
	DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error)
	DeleteLegacyByEmail(ctx context.Context, email string) (int64, error)
}

// DraftStore removes listing drafts for a deleted account.
type DraftStore interface {
	DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error)
}

// InquiryStore removes lead inquiries for a deleted account.
type InquiryStore interface {
	DeleteByAccount(ctx context.Context, accountID id.AccountID) (int64, error)
}

// IdentityProvider is the consumed slice of the credential store.
type IdentityProvider interface {
	FindByID(ctx context.Context, accountID id.AccountID) (*identity.Record, error)
	ExistsByID(ctx context.Context, accountID id.AccountID) (bool, error)
	Delete(ctx context.Context, accountID id.AccountID) error
	ForceDelete(ctx context.Context, accountID id.AccountID) error
	InvalidateSessions(ctx context.Context, accountID id.AccountID) (int64, error)
}

// PromoAdjuster captures and releases founding-tier redemptions.
type PromoAdjuster interface {
	Snapshot(ctx context.Context, accountID id.AccountID) (*promo.Redemption, error)
	Release(ctx context.Context, redemption *promo.Redemption) (int64, error)
}

// AuditPublisher receives append-only audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service coordinates the gated account lifecycle operations.
type Service struct {
	profiles  ProfileStore
	listings  ListingStore
	favorites FavoriteStore
	drafts    DraftStore
	inquiries InquiryStore
	ids       IdentityProvider
	promo     PromoAdjuster

	policy permission.Policy

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService wires the orchestrator. The policy carries the injected
// protected-identity value; every other collaborator is a store boundary.
func NewService(
	profiles ProfileStore,
	listings ListingStore,
	favorites FavoriteStore,
	drafts DraftStore,
	inquiries InquiryStore,
	ids IdentityProvider,
	promoAdjuster PromoAdjuster,
	policy permission.Policy,
	opts ...Option,
) *Service {
	svc := &Service{
		profiles:  profiles,
		listings:  listings,
		favorites: favorites,
		drafts:    drafts,
		inquiries: inquiries,
		ids:       ids,
		promo:     promoAdjuster,
		policy:    policy,
		tracer:    otel.Tracer("doorway/account"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}
