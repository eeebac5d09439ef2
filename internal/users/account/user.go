// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns the user record: the identity row created on first login
and the sleep profile the user edits afterwards.

# Architecture

  - Entities: User, Gender, ClockTime.
  - Storage: PostgresUserRepository (source of truth), RedisProfileCache (optional).
  - Service: GetProfile, UpdateProfile, plus the find-or-create surface the
    login flow uses through [PostgresUserRepository].

The email address is the federation key between a Google identity and a local
user. It is normalized before every lookup and insert and is never updated.
*/
package account

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/sleepwell/internal/platform/validate"
)

// # Domain Entities

// Gender is stored as a single letter.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// User represents a registered sleeper.
//
// Every profile field is optional; a user created by the login flow only has
// an ID and an email address.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email_address"`
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Gender     *Gender    `json:"gender"`
	Age        *int       `json:"age"`
	Weight     *float64   `json:"weight"`
	Height     *float64   `json:"height"`
	WakeUpTime *ClockTime `json:"wake_up_time"`
	BedTime    *ClockTime `json:"bed_time"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// # Time Of Day

// ClockTime is a time of day stored as the offset since midnight.
// It is rendered as "HH:MM:SS" in JSON.
type ClockTime time.Duration

// ParseClockTime accepts "HH:MM:SS" and "HH:MM".
func ParseClockTime(value string) (ClockTime, error) {
	offset, err := validate.ParseClock(value)
	if err != nil {
		return 0, err
	}
	return ClockTime(offset), nil
}

// String formats the time as HH:MM:SS.
func (c ClockTime) String() string {
	total := int(time.Duration(c) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// MarshalJSON implements json.Marshaler.
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// clockFromPg converts a nullable Postgres time column.
func clockFromPg(value pgtype.Time) *ClockTime {
	if !value.Valid {
		return nil
	}
	clock := ClockTime(time.Duration(value.Microseconds) * time.Microsecond)
	return &clock
}

// clockToPg converts an optional time of day for a query argument.
func clockToPg(value *ClockTime) pgtype.Time {
	if value == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: time.Duration(*value).Microseconds(), Valid: true}
}

// # Email Normalization

// NormalizeEmail trims, NFC-normalizes and Unicode case-folds an address so
// differently typed spellings of one mailbox map to one user.
func NormalizeEmail(email string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(email)))
}
