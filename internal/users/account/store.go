// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by a [ProfileCache] that holds no entry for a user.
var ErrCacheMiss = errors.New("account: profile not cached")

// # Repository Contracts

// UserRepository defines the persistence contract for user records.
type UserRepository interface {
	/*
		FindByEmail retrieves a user by normalized email address.

		Returns:
		  - *User: Loaded user
		  - error: dberr.ErrNotFound if absent, or storage failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindByID retrieves a user by primary key.

		Returns:
		  - *User: Loaded user
		  - error: dberr.ErrNotFound if absent, or storage failures
	*/
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	/*
		Create inserts a new user and fills in its ID and timestamps.

		Returns:
		  - error: CONFLICT when the email already exists, or storage failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		Update persists the profile fields of an existing user. The email
		address is never written.

		Returns:
		  - error: dberr.ErrNotFound if the user vanished, or storage failures
	*/
	Update(ctx context.Context, user *User) error
}

// ProfileCache is a read-through cache in front of [UserRepository.FindByID].
//
// Reads fill the cache with Add, which never replaces an entry. Writes use Set.
// A reader that loaded a row before an update can therefore not put the old
// profile back over the one the update stored.
type ProfileCache interface {
	Get(ctx context.Context, id uuid.UUID) (*User, error)

	// Add stores user only if no entry exists for its ID.
	Add(ctx context.Context, user *User) error

	// Set stores user, replacing any existing entry.
	Set(ctx context.Context, user *User) error

	Delete(ctx context.Context, id uuid.UUID) error
}
