// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	requestutil "github.com/taibuivan/sleepwell/internal/platform/request"
	"github.com/taibuivan/sleepwell/internal/platform/respond"
	"github.com/taibuivan/sleepwell/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the public Google sign-in endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - GET /google/login    : Returns the Google consent-screen URL.
//   - GET /google/callback : Completes sign-in and returns a token pair.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/google/login", handler.googleLogin)
	router.Get("/google/callback", handler.googleCallback)

	return router
}

/*
GoogleLogin returns the URL of Google's consent screen.

GET /v1/auth/google/login

Response:
  - 200: {"data": "<authorization url>"}
*/
func (handler *Handler) googleLogin(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.authService.LoginURL())
}

/*
GoogleCallback completes the sign-in Google redirected back to.

GET /v1/auth/google/callback?code=...

Response:
  - 200: TokenPair (not wrapped in the data envelope)
  - 400: Missing code, or Google reported an error (e.g. access_denied)
  - 409: A concurrent first sign-in for the same email won the race
  - 502: Google rejected the code or failed to return a profile
*/
func (handler *Handler) googleCallback(writer http.ResponseWriter, request *http.Request) {
	if providerError := requestutil.Query(request, ParamError); providerError != "" {
		respond.Error(writer, request, apperr.AuthFailed(http.StatusBadRequest,
			"Google sign-in was not completed",
			fmt.Errorf("auth: provider returned error %q", providerError)))
		return
	}

	code := requestutil.Query(request, ParamCode)
	if code == "" {
		respond.Error(writer, request, validate.FieldError(ParamCode, "This field is required"))
		return
	}

	pair, err := handler.authService.GoogleCallback(request.Context(), code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, pair)
}
