// Package main provides a CLI tool for generating test bearer tokens for
// the doorway API. These tokens use the dev signing key and will NOT work
// against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"doorway/internal/jwtauth"
)

const (
	// Dev signing key - matches config.go when DOORWAY_JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer   = "doorway"
	defaultTokenTTL = 30 * time.Minute
)

type tokenOutput struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	accountID := flag.String("account-id", "", "Account ID (UUID). Generated if empty.")
	email := flag.String("email", "super@doorway.local", "Email claim for the token")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	signingKey := flag.String("signing-key", devSigningKey, "HMAC signing key")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if *accountID == "" {
		*accountID = uuid.New().String()
	}
	if _, err := uuid.Parse(*accountID); err != nil {
		fmt.Fprintf(os.Stderr, "invalid account id: %v\n", err)
		os.Exit(1)
	}

	svc := jwtauth.New(*signingKey, defaultIssuer, *ttl)
	token, err := svc.GenerateToken(*accountID, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token generation failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     token,
			AccountID: *accountID,
			Email:     *email,
			ExpiresIn: ttl.String(),
			Usage:     `curl -H "Authorization: Bearer <token>" ...`,
		}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			os.Exit(1)
		}
		return
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\naccount_id: %s\nemail:      %s\nexpires_in: %s\n", *accountID, *email, ttl.String())
}
