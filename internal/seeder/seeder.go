// Package seeder populates in-memory stores with demo data for dev mode.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"doorway/internal/account/models"
	"doorway/internal/account/store"
	"doorway/internal/identity"
	"doorway/internal/promo"
	id "doorway/pkg/domain"
)

// Stores bundles everything the seeder writes into.
type Stores struct {
	Profiles    *store.InMemoryProfileStore
	Listings    *store.InMemoryListingStore
	Favorites   *store.InMemoryFavoriteStore
	Drafts      *store.InMemoryDraftStore
	Inquiries   *store.InMemoryInquiryStore
	Identity    *identity.InMemoryProvider
	Codes       *promo.InMemoryCodeStore
	Redemptions *promo.InMemoryRedemptionStore
}

// Seeder populates in-memory stores with demo data.
type Seeder struct {
	stores Stores
	logger *slog.Logger

	// protectedEmail seeds the protected account so the invariant is
	// exercisable out of the box.
	protectedEmail string
}

// New creates a new seeder.
func New(stores Stores, protectedEmail string, logger *slog.Logger) *Seeder {
	return &Seeder{stores: stores, protectedEmail: protectedEmail, logger: logger}
}

// SeedAll populates all stores with demo data.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	accounts, err := s.seedAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}
	if err := s.seedResources(ctx, accounts); err != nil {
		return fmt.Errorf("failed to seed resources: %w", err)
	}
	if err := s.seedPromo(ctx, accounts); err != nil {
		return fmt.Errorf("failed to seed promo data: %w", err)
	}

	s.logger.Info("demo data seeded successfully", "accounts", len(accounts))
	return nil
}

func (s *Seeder) seedAccounts(ctx context.Context) ([]*models.Account, error) {
	demoAccounts := []struct {
		email     string
		role      models.Role
		level     models.AdminLevel
		territory string
		founding  bool
		verified  bool
	}{
		{s.protectedEmail, models.RoleAdmin, models.LevelSuper, "", false, true},
		{"super@doorway.local", models.RoleAdmin, models.LevelSuper, "", false, true},
		{"owner.north@doorway.local", models.RoleAdmin, models.LevelOwner, "north", false, true},
		{"owner.south@doorway.local", models.RoleAdmin, models.LevelOwner, "south", false, true},
		{"ana.agent@example.com", models.RoleAgent, models.LevelNone, "north", true, true},
		{"bruno.agent@example.com", models.RoleAgent, models.LevelNone, "south", false, false},
		{"clara.landlord@example.com", models.RoleLandlord, models.LevelNone, "north", false, false},
		{"dario.fsbo@example.com", models.RoleFSBO, models.LevelNone, "south", false, false},
	}

	accounts := make([]*models.Account, 0, len(demoAccounts))
	for _, demo := range demoAccounts {
		account := &models.Account{
			ID:             id.NewAccountID(),
			Email:          demo.email,
			Role:           demo.role,
			AdminLevel:     demo.level,
			TerritoryID:    demo.territory,
			FoundingMember: demo.founding,
			Verified:       demo.verified,
		}
		if err := s.stores.Profiles.Save(ctx, account); err != nil {
			return nil, err
		}
		record, err := identity.NewRecord(account.ID, account.Email, "demo-password")
		if err != nil {
			return nil, err
		}
		if err := s.stores.Identity.Save(ctx, record); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s *Seeder) seedResources(ctx context.Context, accounts []*models.Account) error {
	titles := []string{"Sunny 2BR near the park", "Downtown loft", "Quiet family house"}
	for _, account := range accounts {
		if account.Role == models.RoleAdmin {
			continue
		}
		for i, title := range titles {
			listing := &store.Listing{ID: id.NewListingID(), OwnerID: account.ID, Title: title}
			if err := s.stores.Listings.Save(ctx, listing); err != nil {
				return err
			}
			if i == 0 {
				media := &store.MediaItem{
					ID:        account.ID.String()[:8] + "-hero",
					ListingID: listing.ID,
					URL:       "https://media.doorway.local/" + listing.ID.String() + ".jpg",
				}
				if err := s.stores.Listings.AddMedia(ctx, media); err != nil {
					return err
				}
			}
			if err := s.stores.Favorites.Save(ctx, &store.Favorite{AccountID: account.ID, ListingID: listing.ID}); err != nil {
				return err
			}
		}
		if err := s.stores.Favorites.SaveLegacy(ctx, account.Email, id.NewListingID()); err != nil {
			return err
		}
		draft := &store.Draft{ID: account.ID.String()[:8] + "-draft", AccountID: account.ID, Payload: `{"title":"unfinished"}`}
		if err := s.stores.Drafts.Save(ctx, draft); err != nil {
			return err
		}
		inquiry := &store.Inquiry{ID: account.ID.String()[:8] + "-inq", AccountID: account.ID, Message: "Is this still available?"}
		if err := s.stores.Inquiries.Save(ctx, inquiry); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedPromo(ctx context.Context, accounts []*models.Account) error {
	code := &promo.Code{ID: id.NewPromoCodeID(), Code: "FOUNDING2024"}
	for _, account := range accounts {
		if !account.FoundingMember {
			continue
		}
		redemption := &promo.Redemption{
			ID:        id.NewRedemptionID(),
			AccountID: account.ID,
			CodeID:    code.ID,
		}
		if err := s.stores.Redemptions.Save(ctx, redemption); err != nil {
			return err
		}
		code.Redemptions++
	}
	return s.stores.Codes.Save(ctx, code)
}
