// Package jwtauth issues and validates the bearer tokens that identify
// platform actors to this service. The wider platform signs tokens with the
// same shared key; this package only cares about the account identity claims.
package jwtauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "doorway/pkg/domain-errors"
	"doorway/pkg/platform/middleware/auth"
)

// ActorClaims represents the JWT claims carried by actor tokens.
type ActorClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

func New(signingKey string, issuer string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// GenerateToken mints a signed actor token. Used by the local token
// generator tool and the seeder; production tokens come from the platform's
// auth tier.
func (s *Service) GenerateToken(accountID, email string) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning middleware claims.
// It satisfies the auth middleware's TokenValidator interface.
func (s *Service) ValidateToken(tokenString string) (*auth.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*ActorClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.AccountID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing account identity")
	}

	return &auth.Claims{
		AccountID: claims.AccountID,
		Email:     claims.Email,
	}, nil
}
