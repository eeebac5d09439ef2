// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by the SQL repositories so
// queries never spell identifiers by hand.
package schema

import "strings"

// UsersTable represents the 'users' table
type UsersTable struct {
	Table        string
	ID           string
	EmailAddress string
	FirstName    string
	LastName     string
	Gender       string
	Age          string
	Weight       string
	Height       string
	WakeUpTime   string
	BedTime      string
	CreatedAt    string
	UpdatedAt    string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	EmailAddress: "email_address",
	FirstName:    "first_name",
	LastName:     "last_name",
	Gender:       "gender",
	Age:          "age",
	Weight:       "weight",
	Height:       "height",
	WakeUpTime:   "wake_up_time",
	BedTime:      "bed_time",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

// Columns lists every column in scan order.
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.EmailAddress, t.FirstName, t.LastName, t.Gender, t.Age,
		t.Weight, t.Height, t.WakeUpTime, t.BedTime, t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList joins [UsersTable.Columns] for a SELECT or RETURNING clause.
func (t UsersTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
