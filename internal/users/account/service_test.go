// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	"github.com/taibuivan/sleepwell/internal/users/account"
)

func ptr[T any](value T) *T { return &value }

func sampleUser() account.User {
	return account.User{
		ID:        uuid.MustParse("0190d6a4-5c1e-7b3a-9f00-1a2b3c4d5e6f"),
		Email:     "a@example.com",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

/*
TestService_GetProfile verifies the read-through cache and the not-found mapping.
*/
func TestService_GetProfile(t *testing.T) {
	ctx := context.Background()
	user := sampleUser()

	t.Run("unknown_user", func(t *testing.T) {
		service := account.NewService(newMemoryUsers(), nil)
		_, err := service.GetProfile(ctx, uuid.New())
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("without_cache", func(t *testing.T) {
		service := account.NewService(newMemoryUsers(user), nil)
		got, err := service.GetProfile(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", got.Email)
	})

	t.Run("read_through", func(t *testing.T) {
		users := newMemoryUsers(user)
		cache := newMemoryCache()
		service := account.NewService(users, cache)

		_, err := service.GetProfile(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, cache.has(user.ID))

		_, err = service.GetProfile(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, users.reads, "second read must be served by the cache")
	})

	t.Run("cache_down", func(t *testing.T) {
		cache := newMemoryCache()
		cache.fail = errRedisDown
		service := account.NewService(newMemoryUsers(user), cache)

		got, err := service.GetProfile(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})
}

/*
TestService_UpdateProfile verifies partial updates and the cache refresh.
*/
func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	user := sampleUser()
	user.LastName = ptr("Lovelace")

	users := newMemoryUsers(user)
	cache := newMemoryCache()
	service := account.NewService(users, cache)

	_, err := service.GetProfile(ctx, user.ID)
	require.NoError(t, err)

	updated, err := service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{
		FirstName:  ptr("  Ada "),
		Gender:     ptr("F"),
		Age:        ptr(36),
		Weight:     ptr(58.5),
		WakeUpTime: ptr("06:45"),
		BedTime:    ptr("22:30:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", *updated.FirstName)
	assert.Equal(t, "Lovelace", *updated.LastName, "unset fields are preserved")
	assert.Equal(t, account.GenderFemale, *updated.Gender)
	assert.Equal(t, 36, *updated.Age)
	assert.Equal(t, "06:45:00", updated.WakeUpTime.String())
	assert.Equal(t, "22:30:00", updated.BedTime.String())
	assert.Equal(t, "a@example.com", updated.Email)
	cached, ok := cache.peek(user.ID)
	require.True(t, ok)
	assert.Equal(t, "Ada", *cached.FirstName, "update must replace the cached profile")
	assert.Equal(t, 1, users.updates)

	cleared, err := service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{LastName: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.LastName)
}

/*
TestService_StaleReadAfterUpdate verifies a read that loaded the row before an
update cannot overwrite the profile the update cached.
*/
func TestService_StaleReadAfterUpdate(t *testing.T) {
	ctx := context.Background()
	user := sampleUser()
	cache := newMemoryCache()
	service := account.NewService(newMemoryUsers(user), cache)

	stale := user
	_, err := service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{Age: ptr(41)})
	require.NoError(t, err)

	// The slow reader finally writes what it loaded before the update.
	require.NoError(t, cache.Add(ctx, &stale))

	got, err := service.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Age)
	assert.Equal(t, 41, *got.Age)
}

/*
TestService_UpdateProfile_CacheDown verifies a failed cache refresh evicts the entry.
*/
func TestService_UpdateProfile_CacheDown(t *testing.T) {
	ctx := context.Background()
	user := sampleUser()
	cache := &flakyCache{memoryCache: newMemoryCache(), setErr: errRedisDown}
	service := account.NewService(newMemoryUsers(user), cache)

	_, err := service.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, cache.has(user.ID))

	_, err = service.UpdateProfile(ctx, user.ID, account.UpdateProfileInput{Age: ptr(41)})
	require.NoError(t, err)
	assert.False(t, cache.has(user.ID))
}

/*
TestService_UpdateProfile_Invalid verifies validation runs before any storage access.
*/
func TestService_UpdateProfile_Invalid(t *testing.T) {
	user := sampleUser()
	users := newMemoryUsers(user)
	service := account.NewService(users, nil)

	tests := []struct {
		name  string
		input account.UpdateProfileInput
		field string
	}{
		{"gender", account.UpdateProfileInput{Gender: ptr("X")}, "gender"},
		{"age_high", account.UpdateProfileInput{Age: ptr(151)}, "age"},
		{"age_negative", account.UpdateProfileInput{Age: ptr(-1)}, "age"},
		{"weight_zero", account.UpdateProfileInput{Weight: ptr(0.0)}, "weight"},
		{"height_high", account.UpdateProfileInput{Height: ptr(301.0)}, "height"},
		{"bed_time", account.UpdateProfileInput{BedTime: ptr("late")}, "bed_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateProfile(context.Background(), user.ID, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}

	assert.Zero(t, users.reads)

	_, err := service.UpdateProfile(context.Background(), uuid.New(), account.UpdateProfileInput{Age: ptr(30)})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
