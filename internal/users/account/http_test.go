// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	"github.com/taibuivan/sleepwell/internal/platform/ctxutil"
	"github.com/taibuivan/sleepwell/internal/platform/respond"
	"github.com/taibuivan/sleepwell/internal/users/account"
)

func newRouter(users *memoryUsers) http.Handler {
	router := chi.NewRouter()
	router.Mount("/users", account.NewHandler(account.NewService(users, nil)).Routes())
	return router
}

func serve(t *testing.T, handler http.Handler, method, body string, userID *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, "/users/me", strings.NewReader(body))
	if userID != nil {
		request = request.WithContext(ctxutil.WithUserID(request.Context(), *userID))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_GetMe verifies the profile envelope and error statuses.
*/
func TestHandler_GetMe(t *testing.T) {
	user := sampleUser()
	router := newRouter(newMemoryUsers(user))

	recorder := serve(t, router, http.MethodGet, "", &user.ID)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data account.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, user.ID, body.Data.ID)
	assert.Equal(t, "a@example.com", body.Data.Email)

	unknown := uuid.New()
	assert.Equal(t, http.StatusNotFound, serve(t, router, http.MethodGet, "", &unknown).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, router, http.MethodGet, "", nil).Code)
}

/*
TestHandler_UpdateMe verifies partial updates and that email cannot be changed.
*/
func TestHandler_UpdateMe(t *testing.T) {
	user := sampleUser()
	users := newMemoryUsers(user)
	router := newRouter(users)

	recorder := serve(t, router, http.MethodPatch, `{"first_name":"Ada","bed_time":"23:15"}`, &user.ID)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"bed_time":"23:15:00"`)

	recorder = serve(t, router, http.MethodPatch, `{"email_address":"b@example.com"}`, &user.ID)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeValidation, body.Code)

	stored, err := users.FindByID(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", stored.Email)

	recorder = serve(t, router, http.MethodPatch, `{"age":200}`, &user.ID)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
