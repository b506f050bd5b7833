package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr           string
	DatabaseURL    string
	JWTSigningKey  string
	AdminToken     string
	ProtectedEmail string
	SeedDemo       bool
	AuditBuffer    int
	RequestTimeout time.Duration
}

const (
	defaultAddr        = ":8080"
	defaultAuditBuffer = 256
	defaultTimeout     = 30 * time.Second

	// defaultProtectedEmail is the fallback anti-lockout identity.
	// Production deployments must override DOORWAY_PROTECTED_EMAIL.
	defaultProtectedEmail = "root@doorway.local"
)

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("DOORWAY_ADDR", defaultAddr),
		DatabaseURL:    os.Getenv("DOORWAY_DATABASE_URL"),
		JWTSigningKey:  envOr("DOORWAY_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AdminToken:     envOr("DOORWAY_ADMIN_TOKEN", "dev-admin-token"),
		ProtectedEmail: envOr("DOORWAY_PROTECTED_EMAIL", defaultProtectedEmail),
		SeedDemo:       os.Getenv("DOORWAY_SEED_DEMO") == "true",
		AuditBuffer:    defaultAuditBuffer,
		RequestTimeout: defaultTimeout,
	}

	if raw := os.Getenv("DOORWAY_AUDIT_BUFFER"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.AuditBuffer = n
		}
	}
	if raw := os.Getenv("DOORWAY_REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
