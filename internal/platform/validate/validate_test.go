// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sleepwell/internal/platform/apperr"
	"github.com/taibuivan/sleepwell/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "first_name", "Ada", false},
		{"empty_string", "first_name", "", true},
		{"whitespace_only", "first_name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "sleeper@example.com", true},
		{"display_name", "Sleeper <sleeper@example.com>", false},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Measurements checks integer and float bounds.
*/
func TestValidator_Measurements(t *testing.T) {
	assert.False(t, (&validate.Validator{}).Range("age", 0, 0, 150).HasErrors())
	assert.False(t, (&validate.Validator{}).Range("age", 150, 0, 150).HasErrors())
	assert.True(t, (&validate.Validator{}).Range("age", 151, 0, 150).HasErrors())
	assert.True(t, (&validate.Validator{}).Range("age", -1, 0, 150).HasErrors())

	assert.False(t, (&validate.Validator{}).FloatRange("weight", 72.5, 0, 700).HasErrors())
	assert.True(t, (&validate.Validator{}).FloatRange("weight", 0, 0, 700).HasErrors())
	assert.True(t, (&validate.Validator{}).FloatRange("height", 1000.1, 0, 300).HasErrors())
}

/*
TestParseClock checks both accepted time-of-day layouts.
*/
func TestParseClock(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"07:30:00", 7*time.Hour + 30*time.Minute, true},
		{"23:05", 23*time.Hour + 5*time.Minute, true},
		{"00:00:59", 59 * time.Second, true},
		{"24:00", 0, false},
		{"7am", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, err := validate.ParseClock(tt.value)
		if !tt.ok {
			assert.Error(t, err, tt.value)
			assert.True(t, (&validate.Validator{}).ClockTime("bed_time", tt.value).HasErrors())
			continue
		}
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got)
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		MaxLen("first_name", "abcdef", 5).
		OneOf("gender", "X", "M", "F").
		ClockTime("wake_up_time", "25:00").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
	assert.Equal(t, "gender", ae.Details[1].Field)
}
