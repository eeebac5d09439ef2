// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/sleepwell/internal/platform/constants"
)

// RedisProfileCache implements [ProfileCache] using Redis string keys holding JSON.
type RedisProfileCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewProfileCache creates a new Redis-backed [ProfileCache].
func NewProfileCache(client redis.Cmdable) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: constants.ProfileCacheTTL}
}

func profileKey(id uuid.UUID) string {
	return constants.RedisPrefixProfile + id.String()
}

/*
Get returns the cached profile for id.

Returns:
  - *User: Cached profile
  - error: ErrCacheMiss when absent, or connectivity errors
*/
func (cache *RedisProfileCache) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	payload, err := cache.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis_profile_get_failed: %w", err)
	}

	user := &User{}
	if err := json.Unmarshal(payload, user); err != nil {
		return nil, fmt.Errorf("redis_profile_decode_failed: %w", err)
	}

	return user, nil
}

// Add stores user under its ID for the cache TTL unless the key already exists.
func (cache *RedisProfileCache) Add(ctx context.Context, user *User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis_profile_encode_failed: %w", err)
	}

	if err := cache.client.SetNX(ctx, profileKey(user.ID), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_profile_add_failed: %w", err)
	}

	return nil
}

// Set stores user under its ID for the cache TTL, replacing any existing entry.
func (cache *RedisProfileCache) Set(ctx context.Context, user *User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis_profile_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, profileKey(user.ID), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_profile_set_failed: %w", err)
	}

	return nil
}

// Delete evicts the cached profile for id. Deleting a missing key is not an error.
func (cache *RedisProfileCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := cache.client.Del(ctx, profileKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_profile_delete_failed: %w", err)
	}
	return nil
}
