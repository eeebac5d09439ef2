// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT signing and verification)
// from the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth package's TokenIssuer interface.
//
// Access and refresh tokens share one HMAC secret and algorithm. They are told
// apart only by the "typ" claim.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
)

// ErrSubjectMissing is the [Verification.Cause] of a token that verifies but
// carries no "sub" claim.
var ErrSubjectMissing = errors.New("sec: token has no subject")

// # Token Kinds

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims represents the payload embedded inside every issued token.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is abbreviated to keep the JWT payload small.
	Kind TokenKind `json:"typ"`
}

// # Verification Result

// Outcome tags the result of [TokenIssuer.Decode].
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeExpired
	OutcomeInvalid
	OutcomeMalformed
)

// String returns a stable label used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeExpired:
		return "expired"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Verification is the tagged result of decoding a token.
//
// Claims is only populated when Outcome is [OutcomeOK]. Cause holds the
// underlying parser error for every other outcome.
type Verification struct {
	Outcome Outcome
	Claims  *Claims
	Cause   error
}

// Err maps the outcome onto the API error taxonomy. It returns nil for [OutcomeOK].
func (v Verification) Err() error {
	switch v.Outcome {
	case OutcomeOK:
		return nil
	case OutcomeExpired:
		return apperr.TokenExpired()
	case OutcomeInvalid:
		return apperr.TokenInvalid(v.Cause)
	default:
		return apperr.TokenMalformed(v.Cause)
	}
}

// # Issuer

// Clock returns the current time. It is injected so expiry is deterministic in tests.
type Clock func() time.Time

// TokenIssuer signs and verifies HMAC JWTs.
//
// It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	clock  Clock
}

// NewTokenIssuer validates the algorithm name and builds a [TokenIssuer].
//
// Only the HMAC family (HS256, HS384, HS512) is accepted because the service
// is configured with a shared secret rather than a key pair.
func NewTokenIssuer(secret, algorithm, issuer string, clock Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", algorithm)
	}

	if clock == nil {
		clock = time.Now
	}

	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		clock:  clock,
	}, nil
}

// IssueAccessToken creates a signed access token for subject expiring after ttl.
//
// "exp" has whole-second precision and is rounded up, so a positive ttl never
// yields a token that is already expired.
func (issuer *TokenIssuer) IssueAccessToken(subject string, ttl time.Duration) (string, error) {
	return issuer.issue(subject, KindAccess, ttl)
}

// IssueRefreshToken creates a signed refresh token for subject expiring after ttl.
func (issuer *TokenIssuer) IssueRefreshToken(subject string, ttl time.Duration) (string, error) {
	return issuer.issue(subject, KindRefresh, ttl)
}

func (issuer *TokenIssuer) issue(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	currentTime := issuer.clock()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiryFrom(currentTime, ttl)),
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(issuer.method, claims)
	signedToken, err := token.SignedString(issuer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signedToken, nil
}

// expiryFrom returns now+ttl rounded up to the jwt time precision.
func expiryFrom(now time.Time, ttl time.Duration) time.Time {
	expiry := now.Add(ttl)
	if truncated := expiry.Truncate(jwt.TimePrecision); truncated.Before(expiry) {
		return truncated.Add(jwt.TimePrecision)
	}
	return expiry
}

// Decode verifies the signature of tokenString and then its expiry.
//
// The jwt parser checks the signature before it validates claims, so an
// expired token with a forged signature reports [OutcomeInvalid], never
// [OutcomeExpired].
func (issuer *TokenIssuer) Decode(tokenString string) Verification {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return issuer.secret, nil
		},
		jwt.WithValidMethods([]string{issuer.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(issuer.clock),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Verification{Outcome: OutcomeExpired, Cause: err}
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return Verification{Outcome: OutcomeInvalid, Cause: err}
	default:
		return Verification{Outcome: OutcomeMalformed, Cause: err}
	}

	if claims.Subject == "" {
		return Verification{Outcome: OutcomeMalformed, Cause: ErrSubjectMissing}
	}

	return Verification{Outcome: OutcomeOK, Claims: claims}
}
