// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/sleepwell/internal/platform/request"
	"github.com/taibuivan/sleepwell/internal/platform/respond"
)

// Handler implements the HTTP layer for the authenticated user's profile.
//
// All routes must be mounted behind middleware.RequireAuth.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	return router
}

// # User Profile Endpoints

/*
GET /v1/users/me.

Description: Retrieves the profile of the authenticated user.

Response:
  - 200: User: The user profile
  - 401: Missing or rejected bearer token
  - 404: ErrNotFound: The token's subject has no user row
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
// email_address is absent, so the decoder rejects it.
type updateMeRequest struct {
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	Gender     *string  `json:"gender"`
	Age        *int     `json:"age"`
	Weight     *float64 `json:"weight"`
	Height     *float64 `json:"height"`
	WakeUpTime *string  `json:"wake_up_time"`
	BedTime    *string  `json:"bed_time"`
}

/*
PATCH /v1/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: VALIDATION_ERROR: Invalid JSON, unknown field or out-of-range value
  - 401: Missing or rejected bearer token
  - 404: ErrNotFound: The token's subject has no user row
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
