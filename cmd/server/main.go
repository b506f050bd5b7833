package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "doorway/internal/account/handler"
	"doorway/internal/account/permission"
	"doorway/internal/account/service"
	"doorway/internal/account/store"
	"doorway/internal/admin"
	"doorway/internal/audit"
	"doorway/internal/identity"
	"doorway/internal/jwtauth"
	"doorway/internal/platform/config"
	"doorway/internal/platform/database"
	"doorway/internal/platform/health"
	"doorway/internal/platform/logger"
	"doorway/internal/platform/metrics"
	"doorway/internal/promo"
	"doorway/internal/seeder"
	adminmw "doorway/pkg/platform/middleware/admin"
	authmw "doorway/pkg/platform/middleware/auth"
	requestmw "doorway/pkg/platform/middleware/request"
)

// main wires the subsystem together: stores (postgres when a database URL
// is configured, in-memory otherwise), the deletion and verification
// service, the HTTP surface, and the server lifecycle.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing doorway",
		"addr", cfg.Addr,
		"database", cfg.DatabaseURL != "",
		"seed_demo", cfg.SeedDemo,
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	svcDeps := wireStores(cfg, pool, log)

	auditPublisher := audit.NewPublisher(svcDeps.auditStore,
		audit.WithAsyncBuffer(cfg.AuditBuffer),
		audit.WithPublisherLogger(log),
	)
	defer auditPublisher.Close()

	m := metrics.New()
	policy := permission.Policy{ProtectedEmail: cfg.ProtectedEmail}
	svc := service.NewService(
		svcDeps.profiles,
		svcDeps.listings,
		svcDeps.favorites,
		svcDeps.drafts,
		svcDeps.inquiries,
		svcDeps.ids,
		promo.NewAdjuster(svcDeps.codes, svcDeps.redemptions, log),
		policy,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(m),
	)

	jwtService := jwtauth.New(cfg.JWTSigningKey, "doorway", 30*time.Minute)

	healthHandler := health.New()
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}

	r := chi.NewRouter()
	r.Use(requestmw.Recovery(log))
	r.Use(requestmw.RequestID)
	r.Use(requestmw.Logger(log))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(requestmw.LatencyMiddleware(m))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(jwtService, log))
		accounthandler.New(svc, log).Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.AdminToken, log))
		admin.New(admin.NewService(svcDeps.auditStore), log).Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		if err := pool.Close(); err != nil {
			log.Error("closing database pool failed", "error", err)
		}
	}

	log.Info("server stopped")
}

// storeSet holds every persistence boundary the service consumes.
type storeSet struct {
	profiles    service.ProfileStore
	listings    service.ListingStore
	favorites   service.FavoriteStore
	drafts      service.DraftStore
	inquiries   service.InquiryStore
	ids         service.IdentityProvider
	codes       promo.CodeStore
	redemptions promo.RedemptionStore
	auditStore  audit.Store
}

// wireStores picks postgres-backed stores when a pool is available and
// falls back to in-memory stores for dev mode, optionally seeded.
func wireStores(cfg config.Server, pool *database.Pool, log *slog.Logger) storeSet {
	if pool != nil {
		db := pool.DB()
		return storeSet{
			profiles:    store.NewPostgresProfileStore(db),
			listings:    store.NewPostgresListingStore(db),
			favorites:   store.NewPostgresFavoriteStore(db),
			drafts:      store.NewPostgresDraftStore(db),
			inquiries:   store.NewPostgresInquiryStore(db),
			ids:         identity.NewPostgresProvider(db),
			codes:       promo.NewPostgresCodeStore(db),
			redemptions: promo.NewPostgresRedemptionStore(db),
			auditStore:  audit.NewPostgresStore(db),
		}
	}

	mem := seeder.Stores{
		Profiles:    store.NewInMemoryProfileStore(),
		Listings:    store.NewInMemoryListingStore(),
		Favorites:   store.NewInMemoryFavoriteStore(),
		Drafts:      store.NewInMemoryDraftStore(),
		Inquiries:   store.NewInMemoryInquiryStore(),
		Identity:    identity.NewInMemoryProvider(),
		Codes:       promo.NewInMemoryCodeStore(),
		Redemptions: promo.NewInMemoryRedemptionStore(),
	}
	if cfg.SeedDemo {
		if err := seeder.New(mem, cfg.ProtectedEmail, log).SeedAll(context.Background()); err != nil {
			log.Error("seeding demo data failed", "error", err)
			os.Exit(1)
		}
	}
	return storeSet{
		profiles:    mem.Profiles,
		listings:    mem.Listings,
		favorites:   mem.Favorites,
		drafts:      mem.Drafts,
		inquiries:   mem.Inquiries,
		ids:         mem.Identity,
		codes:       mem.Codes,
		redemptions: mem.Redemptions,
		auditStore:  audit.NewInMemoryStore(),
	}
}
