// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/taibuivan/sleepwell/internal/platform/dberr"
	"github.com/taibuivan/sleepwell/internal/users/account"
)

// memoryUsers is an in-memory [account.UserRepository].
type memoryUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]account.User
	reads   int
	updates int
}

func newMemoryUsers(users ...account.User) *memoryUsers {
	repo := &memoryUsers{byID: map[uuid.UUID]account.User{}}
	for _, user := range users {
		repo.byID[user.ID] = user
	}
	return repo
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*account.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.byID {
		if user.Email == account.NormalizeEmail(email) {
			return &user, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*account.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.reads++
	user, ok := repo.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return &user, nil
}

func (repo *memoryUsers) Create(_ context.Context, user *account.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.byID[user.ID] = *user
	return nil
}

func (repo *memoryUsers) Update(_ context.Context, user *account.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.byID[user.ID]; !ok {
		return dberr.ErrNotFound
	}
	repo.updates++
	repo.byID[user.ID] = *user
	return nil
}

// memoryCache is an in-memory [account.ProfileCache]. A non-nil fail makes every call error.
type memoryCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]account.User
	fail    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[uuid.UUID]account.User{}}
}

func (cache *memoryCache) Get(_ context.Context, id uuid.UUID) (*account.User, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.fail != nil {
		return nil, cache.fail
	}
	user, ok := cache.entries[id]
	if !ok {
		return nil, account.ErrCacheMiss
	}
	return &user, nil
}

func (cache *memoryCache) Add(_ context.Context, user *account.User) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.fail != nil {
		return cache.fail
	}
	if _, ok := cache.entries[user.ID]; !ok {
		cache.entries[user.ID] = *user
	}
	return nil
}

func (cache *memoryCache) Set(_ context.Context, user *account.User) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.fail != nil {
		return cache.fail
	}
	cache.entries[user.ID] = *user
	return nil
}

func (cache *memoryCache) Delete(_ context.Context, id uuid.UUID) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.fail != nil {
		return cache.fail
	}
	delete(cache.entries, id)
	return nil
}

func (cache *memoryCache) has(id uuid.UUID) bool {
	_, ok := cache.peek(id)
	return ok
}

func (cache *memoryCache) peek(id uuid.UUID) (account.User, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	user, ok := cache.entries[id]
	return user, ok
}

// flakyCache fails Set only, leaving Add and Delete working.
type flakyCache struct {
	*memoryCache
	setErr error
}

func (cache *flakyCache) Set(context.Context, *account.User) error { return cache.setErr }

var errRedisDown = errors.New("dial tcp: connection refused")
