// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	"github.com/taibuivan/sleepwell/internal/platform/ctxutil"
	"github.com/taibuivan/sleepwell/internal/platform/dberr"
	"github.com/taibuivan/sleepwell/internal/platform/validate"
)

// Profile bounds. Weight is in kilograms and height in centimetres.
const (
	maxNameLength = 100
	maxAge        = 150
	maxWeight     = 700
	maxHeight     = 300
)

// # Service Layer

// Service orchestrates profile reads and edits.
//
// The cache is optional. A failing cache is logged and bypassed; it never
// fails a request that Postgres could serve.
type Service struct {
	users UserRepository
	cache ProfileCache
}

// NewService constructs a new [Service]. cache may be nil.
func NewService(users UserRepository, cache ProfileCache) *Service {
	return &Service{users: users, cache: cache}
}

// # Profile Management

/*
GetProfile retrieves the profile of a user.

Description: Served from the cache when present, otherwise loaded from
Postgres and added to the cache if no newer entry landed meanwhile.

Returns:
  - *User: The user profile
  - error: apperr.NotFound if no such user, or storage failures
*/
func (service *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	logger := ctxutil.GetLogger(ctx)

	if service.cache != nil {
		user, err := service.cache.Get(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.WarnContext(ctx, "profile_cache_read_failed", slog.Any("error", err))
		}
	}

	user, err := service.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.Add(ctx, user); err != nil {
			logger.WarnContext(ctx, "profile_cache_write_failed", slog.Any("error", err))
		}
	}

	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
//
// A nil field is left unchanged. An empty first or last name clears it.
type UpdateProfileInput struct {
	FirstName  *string
	LastName   *string
	Gender     *string
	Age        *int
	Weight     *float64
	Height     *float64
	WakeUpTime *string
	BedTime    *string
}

// validate runs every rule and reports all failures at once.
func (input UpdateProfileInput) validate() error {
	v := &validate.Validator{}

	if input.FirstName != nil {
		v.MaxLen("first_name", strings.TrimSpace(*input.FirstName), maxNameLength)
	}
	if input.LastName != nil {
		v.MaxLen("last_name", strings.TrimSpace(*input.LastName), maxNameLength)
	}
	if input.Gender != nil {
		v.OneOf("gender", *input.Gender, string(GenderMale), string(GenderFemale))
	}
	if input.Age != nil {
		v.Range("age", *input.Age, 0, maxAge)
	}
	if input.Weight != nil {
		v.FloatRange("weight", *input.Weight, 0, maxWeight)
	}
	if input.Height != nil {
		v.FloatRange("height", *input.Height, 0, maxHeight)
	}
	if input.WakeUpTime != nil {
		v.ClockTime("wake_up_time", *input.WakeUpTime)
	}
	if input.BedTime != nil {
		v.ClockTime("bed_time", *input.BedTime)
	}

	return v.Err()
}

/*
UpdateProfile applies a partial set of changes to a user's profile.

Description: Validates the input, loads the current row from Postgres
(never from the cache), overrides the provided fields, persists the change and
replaces the cached profile.

Returns:
  - *User: The updated profile
  - error: VALIDATION_ERROR, apperr.NotFound or storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	user, err := service.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = optionalName(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = optionalName(*input.LastName)
	}
	if input.Gender != nil {
		gender := Gender(*input.Gender)
		user.Gender = &gender
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Weight != nil {
		user.Weight = input.Weight
	}
	if input.Height != nil {
		user.Height = input.Height
	}
	if input.WakeUpTime != nil {
		clock, _ := ParseClockTime(*input.WakeUpTime)
		user.WakeUpTime = &clock
	}
	if input.BedTime != nil {
		clock, _ := ParseClockTime(*input.BedTime)
		user.BedTime = &clock
	}

	if err := service.users.Update(ctx, user); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	if service.cache != nil {
		service.refreshCache(ctx, user)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_profile_updated", slog.String("user_id", userID.String()))

	return user, nil
}

// refreshCache overwrites the cached profile with user. If that fails the
// entry is evicted so the previous profile cannot outlive the update.
func (service *Service) refreshCache(ctx context.Context, user *User) {
	logger := ctxutil.GetLogger(ctx)

	err := service.cache.Set(ctx, user)
	if err == nil {
		return
	}
	logger.WarnContext(ctx, "profile_cache_write_failed", slog.Any("error", err))

	if err := service.cache.Delete(ctx, user.ID); err != nil {
		logger.WarnContext(ctx, "profile_cache_evict_failed", slog.Any("error", err))
	}
}

// load reads a user from Postgres and maps a missing row to NOT_FOUND.
func (service *Service) load(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("account_service_load_failed: %w", err)
	}
	return user, nil
}

func optionalName(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
