// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Repositories pass every pgx error through [Wrap] so services only ever see
// [ErrNotFound] or an [apperr.AppError].
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
)

// ErrNotFound is returned when a queried row doesn't exist.
var ErrNotFound = errors.New("dberr: row not found")

// Wrap inspects a database error and classifies it.
//
// action names the repository operation (e.g. "user_create") and ends up in
// the server-side cause only.
//
//   - pgx.ErrNoRows becomes [ErrNotFound].
//   - unique_violation (23505) becomes a 409 CONFLICT.
//   - check_violation (23514) becomes a 400 VALIDATION_ERROR.
//   - everything else becomes a 500 INTERNAL_ERROR.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	cause := fmt.Errorf("%s_failed: %w", action, err)

	// 2. Constraint violations reported by Postgres
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict("The record already exists")
			conflict.Cause = cause
			return conflict
		case pgerrcode.CheckViolation:
			invalid := apperr.ValidationError("The record violates a data constraint")
			invalid.Cause = cause
			return invalid
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(cause)
}
