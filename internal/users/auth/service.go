// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements sign-in with Google and bearer token authentication.

Architecture:

  - Service: Orchestrates the login sequence (exchange, profile, find-or-create, issue).
  - Contracts: IdentityProvider, UserDirectory and TokenIssuer are satisfied by
    google.Client, account.PostgresUserRepository and sec.TokenIssuer.
  - Handler: The two public OAuth endpoints.

The email address returned by Google is the only link between a Google identity
and a local user. A user row is created the first time an address signs in and
is never touched by this package afterwards.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	"github.com/taibuivan/sleepwell/internal/platform/constants"
	"github.com/taibuivan/sleepwell/internal/platform/ctxutil"
	"github.com/taibuivan/sleepwell/internal/platform/dberr"
	"github.com/taibuivan/sleepwell/internal/platform/google"
	"github.com/taibuivan/sleepwell/internal/platform/sec"
	"github.com/taibuivan/sleepwell/internal/users/account"
	"github.com/taibuivan/sleepwell/pkg/uuidv7"
)

// # Contracts & Types

// IdentityProvider performs the provider side of the authorization-code flow.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code string) (*google.TokenResponse, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*google.Profile, error)
	AuthURL() string
}

// UserDirectory is the slice of the user store the login sequence needs.
type UserDirectory interface {
	// FindByEmail returns dberr.ErrNotFound when no user has the address.
	FindByEmail(ctx context.Context, email string) (*account.User, error)

	// Create commits immediately. A concurrent insert of the same address
	// fails with a CONFLICT error.
	Create(ctx context.Context, user *account.User) error
}

// TokenIssuer signs and verifies the service's own JWTs.
type TokenIssuer interface {
	IssueAccessToken(subject string, ttl time.Duration) (string, error)
	IssueRefreshToken(subject string, ttl time.Duration) (string, error)
	Decode(token string) sec.Verification
}

// TokenPair is returned to the client after a successful sign-in.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Lifetimes holds the independent TTLs of the two issued tokens.
type Lifetimes struct {
	Access  time.Duration
	Refresh time.Duration
}

// Service implements the authentication use cases.
//
// It holds no mutable state; concurrent logins only meet at the database's
// unique constraint on the email address.
type Service struct {
	provider  IdentityProvider
	directory UserDirectory
	issuer    TokenIssuer
	lifetimes Lifetimes
	newID     func() uuid.UUID
}

// NewService constructs a new [Service] with its dependencies.
func NewService(provider IdentityProvider, directory UserDirectory, issuer TokenIssuer, lifetimes Lifetimes) *Service {
	return &Service{
		provider:  provider,
		directory: directory,
		issuer:    issuer,
		lifetimes: lifetimes,
		newID:     uuidv7.New,
	}
}

// # Login Flow

// LoginURL returns the Google consent-screen URL the client should open.
func (service *Service) LoginURL() string {
	return service.provider.AuthURL()
}

/*
GoogleCallback completes a sign-in started at [Service.LoginURL].

Description: Exchanges code for a Google access token, reads the profile,
finds or creates the user keyed by email and issues an access/refresh pair
whose subject is the user ID. Nothing is persisted if either provider call
fails, and nothing is retried.

Parameters:
  - ctx: context.Context
  - code: string (Authorization code from the callback query)

Returns:
  - *TokenPair: Freshly issued tokens
  - error: AUTH_FAILED with 502 (provider), 409 (concurrent first login) or 500
*/
func (service *Service) GoogleCallback(ctx context.Context, code string) (*TokenPair, error) {
	logger := ctxutil.GetLogger(ctx)

	// 1. Exchange the code for Google's token (only used to read the profile)
	providerToken, err := service.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperr.AuthFailed(http.StatusBadGateway, "Google sign-in failed", err)
	}

	// 2. Read the user's Google profile
	profile, err := service.provider.FetchUserInfo(ctx, providerToken.AccessToken)
	if err != nil {
		return nil, apperr.AuthFailed(http.StatusBadGateway, "Google sign-in failed", err)
	}

	// 3. Find or create the local user
	user, created, err := service.resolveUser(ctx, profile.Email)
	if err != nil {
		return nil, err
	}

	// 4. Issue our own tokens
	pair, err := service.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "google_login_succeeded",
		slog.String("user_id", user.ID.String()),
		slog.Bool("user_created", created),
	)

	return pair, nil
}

// resolveUser looks the user up by email and creates it on first sign-in.
func (service *Service) resolveUser(ctx context.Context, email string) (*account.User, bool, error) {
	user, err := service.directory.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, false, apperr.AuthFailed(http.StatusInternalServerError, "Could not load the user account", err)
	}

	user = &account.User{ID: service.newID(), Email: email}
	if err := service.directory.Create(ctx, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, false, apperr.AuthFailed(http.StatusConflict, "The account is being created by another sign-in, please retry", err)
		}
		return nil, false, apperr.AuthFailed(http.StatusInternalServerError, "Could not create the user account", err)
	}

	return user, true, nil
}

// issuePair signs both tokens for userID with their independent lifetimes.
func (service *Service) issuePair(userID uuid.UUID) (*TokenPair, error) {
	subject := userID.String()

	accessToken, err := service.issuer.IssueAccessToken(subject, service.lifetimes.Access)
	if err != nil {
		return nil, apperr.AuthFailed(http.StatusInternalServerError, "Could not issue tokens", err)
	}

	refreshToken, err := service.issuer.IssueRefreshToken(subject, service.lifetimes.Refresh)
	if err != nil {
		return nil, apperr.AuthFailed(http.StatusInternalServerError, "Could not issue tokens", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    int(service.lifetimes.Access / time.Second),
	}, nil
}

// # Bearer Authentication

/*
Authenticate resolves an access token to the ID of the user it was issued for.

Returns:
  - uuid.UUID: The token's subject
  - error: TOKEN_EXPIRED, TOKEN_INVALID (bad signature, or a refresh token used
    as bearer), TOKEN_MALFORMED, or AUTH_FAILED (401) if the subject is missing or not a user ID
*/
func (service *Service) Authenticate(token string) (uuid.UUID, error) {
	verification := service.issuer.Decode(token)
	if errors.Is(verification.Cause, sec.ErrSubjectMissing) {
		return uuid.Nil, apperr.AuthFailed(http.StatusUnauthorized, "Token has no subject", verification.Cause)
	}
	if err := verification.Err(); err != nil {
		return uuid.Nil, err
	}

	claims := verification.Claims
	if claims.Kind != sec.KindAccess {
		return uuid.Nil, apperr.TokenInvalid(fmt.Errorf("auth: %q token presented as bearer", claims.Kind))
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperr.AuthFailed(http.StatusUnauthorized, "Token subject is not a user", err)
	}

	return userID, nil
}
