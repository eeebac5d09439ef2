// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package google wraps the outbound calls made to Google's OAuth2 endpoints.

It covers the two calls of the authorization-code flow that happen on our side:

  - Exchange: trades the authorization code for a provider access token.
  - UserInfo: reads the signed-in user's profile with that access token.

Every failure (transport error, non-2xx status, unexpected body) is reported as a
PROVIDER_ERROR [apperr.AppError]. Nothing is retried here. Each call is bounded by
its own timeout on top of the injected [http.Client].
*/
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	"github.com/taibuivan/sleepwell/internal/platform/validate"
)

// userInfoPath is resolved against the configured API base URI.
const userInfoPath = "oauth2/v3/userinfo"

// maxProfileBytes caps how much of the userinfo body is read.
const maxProfileBytes = 1 << 20

// # Configuration

// Settings holds the provider endpoints and client registration.
type Settings struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	APIBaseURI   string
	Scopes       []string

	// Timeout bounds each outbound call independently.
	Timeout time.Duration
}

// # Provider DTOs

// TokenResponse is the subset of the token endpoint response the login flow reads.
type TokenResponse struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	IDToken      string
	Expiry       time.Time
}

// Profile is the user-info payload returned by Google.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// # Client

// Client talks to Google's token and userinfo endpoints.
//
// It is safe for concurrent use; all fields are read-only after construction.
type Client struct {
	oauth       *oauth2.Config
	httpClient  *http.Client
	userInfoURL string
	authURL     string
	timeout     time.Duration
}

// NewClient validates the settings and precomputes the authorization URL.
func NewClient(settings Settings, httpClient *http.Client) (*Client, error) {
	if settings.ClientID == "" || settings.ClientSecret == "" {
		return nil, errors.New("google: client id and secret are required")
	}
	if settings.Timeout <= 0 {
		return nil, errors.New("google: timeout must be positive")
	}

	for name, raw := range map[string]string{
		"auth url":     settings.AuthURL,
		"token url":    settings.TokenURL,
		"api base uri": settings.APIBaseURI,
		"redirect uri": settings.RedirectURI,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, fmt.Errorf("google: invalid %s %q: %w", name, raw, err)
		}
	}

	userInfoURL, err := url.JoinPath(settings.APIBaseURI, userInfoPath)
	if err != nil {
		return nil, fmt.Errorf("google: failed to build userinfo url: %w", err)
	}

	if httpClient == nil {
		httpClient = NewHTTPClient(settings.Timeout)
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			RedirectURL:  settings.RedirectURI,
			Scopes:       settings.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   settings.AuthURL,
				TokenURL:  settings.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient:  httpClient,
		userInfoURL: userInfoURL,
		authURL:     buildAuthURL(settings),
		timeout:     settings.Timeout,
	}, nil
}

// NewHTTPClient returns the shared outbound client. Its transport keeps idle
// connections to the provider alive across requests.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.IdleConnTimeout = 90 * time.Second

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// AuthURL returns the consent-screen URL the browser is sent to.
func (client *Client) AuthURL() string {
	return client.authURL
}

// buildAuthURL joins the scopes with %20 and passes the client id and redirect
// URI through unchanged.
func buildAuthURL(settings Settings) string {
	scopes := make([]string, 0, len(settings.Scopes))
	for _, scope := range settings.Scopes {
		scopes = append(scopes, url.QueryEscape(scope))
	}

	var builder strings.Builder
	builder.WriteString(settings.AuthURL)
	builder.WriteString("?client_id=")
	builder.WriteString(settings.ClientID)
	builder.WriteString("&redirect_uri=")
	builder.WriteString(settings.RedirectURI)
	builder.WriteString("&response_type=code")
	builder.WriteString("&scope=")
	builder.WriteString(strings.Join(scopes, "%20"))
	return builder.String()
}

// # Outbound Calls

/*
ExchangeCode trades an authorization code for a provider token.

Description: Form-POSTs code, client_id, client_secret, redirect_uri and
grant_type=authorization_code to the token endpoint.

Returns:
  - *TokenResponse: Provider tokens
  - error: PROVIDER_ERROR on transport failure, non-2xx status, or a missing access_token
*/
func (client *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	// oauth2 picks the HTTP client up from the context.
	callCtx = context.WithValue(callCtx, oauth2.HTTPClient, client.httpClient)

	token, err := client.oauth.Exchange(callCtx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, apperr.ProviderError("Identity provider rejected the authorization code",
				fmt.Errorf("google: token endpoint returned %d (%s): %w", retrieveErr.Response.StatusCode, retrieveErr.ErrorCode, err))
		}
		return nil, apperr.ProviderError("Identity provider token exchange failed",
			fmt.Errorf("google: token exchange: %w", err))
	}

	response := &TokenResponse{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		response.IDToken = idToken
	}

	return response, nil
}

/*
FetchUserInfo reads the profile of the user who owns accessToken.

Returns:
  - *Profile: Decoded userinfo payload (email is a valid bare address)
  - error: PROVIDER_ERROR on transport failure, non-2xx status, or an unusable body
*/
func (client *Client) FetchUserInfo(ctx context.Context, accessToken string) (*Profile, error) {
	callCtx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(callCtx, http.MethodGet, client.userInfoURL, nil)
	if err != nil {
		return nil, apperr.ProviderError("Identity provider profile request failed", fmt.Errorf("google: build userinfo request: %w", err))
	}
	request.Header.Set("Accept", "application/json")
	(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(request)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.ProviderError("Identity provider profile request failed", fmt.Errorf("google: userinfo: %w", err))
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, apperr.ProviderError("Identity provider profile request failed",
			fmt.Errorf("google: userinfo returned %d: %s", response.StatusCode, strings.TrimSpace(string(body))))
	}

	profile := &Profile{}
	if err := json.NewDecoder(io.LimitReader(response.Body, maxProfileBytes)).Decode(profile); err != nil {
		return nil, apperr.ProviderError("Identity provider returned an unreadable profile", fmt.Errorf("google: decode userinfo: %w", err))
	}

	check := (&validate.Validator{}).Required("email", profile.Email)
	if !check.HasErrors() {
		check.Email("email", profile.Email)
	}
	if err := check.Err(); err != nil {
		return nil, apperr.ProviderError("Identity provider profile has no usable email address",
			fmt.Errorf("google: userinfo email %q: %w", profile.Email, err))
	}

	return profile, nil
}
