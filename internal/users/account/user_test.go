// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sleepwell/internal/users/account"
)

/*
TestNormalizeEmail verifies trimming, case folding and NFC composition.
*/
func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a@example.com", "a@example.com"},
		{"  A@Example.COM ", "a@example.com"},
		{"STRASSE@example.com", "strasse@example.com"},
		// "e" followed by a combining acute accent composes to "é".
		{"Rene\u0301@example.com", "ren\u00e9@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, account.NormalizeEmail(tt.in), tt.in)
	}
}

/*
TestUser_JSON verifies the wire shape, including null optionals and HH:MM:SS times.
*/
func TestUser_JSON(t *testing.T) {
	user := sampleUser()

	payload, err := json.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "0190d6a4-5c1e-7b3a-9f00-1a2b3c4d5e6f",
		"email_address": "a@example.com",
		"first_name": null,
		"last_name": null,
		"gender": null,
		"age": null,
		"weight": null,
		"height": null,
		"wake_up_time": null,
		"bed_time": null,
		"created_at": "2026-01-02T03:04:05Z",
		"updated_at": "2026-01-02T03:04:05Z"
	}`, string(payload))

	wake, err := account.ParseClockTime("06:05")
	require.NoError(t, err)
	user.WakeUpTime = &wake

	payload, err = json.Marshal(user)
	require.NoError(t, err)

	var decoded account.User
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.NotNil(t, decoded.WakeUpTime)
	assert.Equal(t, "06:05:00", decoded.WakeUpTime.String())
	assert.Equal(t, user, decoded)
}
