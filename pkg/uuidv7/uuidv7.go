// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// # Why UUIDv7?
//
// It is the primary key type of the users table. Because it is time-sortable,
// inserts land at the right edge of the primary-key B-tree instead of at
// random pages as UUIDv4 keys would.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7.
//
// # Safety
//
// It panics only if the OS random source is unavailable. OS entropy failure
// is an unrecoverable system-level error.
func New() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}
	return id
}

// String generates a new UUIDv7 in its canonical text form.
func String() string {
	return New().String()
}
