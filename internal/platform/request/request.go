// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It keeps body decoding and identity lookups consistent across handlers so
every handler fails the same way on bad input.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	"github.com/taibuivan/sleepwell/internal/platform/ctxutil"
	"github.com/taibuivan/sleepwell/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Unknown fields are rejected so a client cannot believe it changed a field the
API ignores (e.g. email_address on a profile update).

Returns:
  - error: VALIDATION_ERROR if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.InvalidJSON(err)
	}

	// Exactly one JSON value per body.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.InvalidJSON(errors.New("request body holds more than one JSON value"))
	}

	return nil
}

// Query returns the trimmed value of a query-string parameter.
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
RequiredUserID returns the ID of the currently authenticated user.

Returns:
  - uuid.UUID: User ID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (uuid.UUID, error) {
	userID, ok := ctxutil.GetUserID(request.Context())
	if !ok {
		return uuid.Nil, apperr.Unauthorized("Authentication required")
	}
	return userID, nil
}
