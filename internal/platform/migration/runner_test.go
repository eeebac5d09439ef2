// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestToPgx5URL verifies scheme rewriting for the migrate driver.
*/
func TestToPgx5URL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/sleepwell?sslmode=disable", "pgx5://u:p@localhost:5432/sleepwell?sslmode=disable"},
		{"postgresql://u:p@db/sleepwell", "pgx5://u:p@db/sleepwell"},
		{"pgx5://u:p@db/sleepwell", "pgx5://u:p@db/sleepwell"},
		{"host=localhost dbname=sleepwell", "host=localhost dbname=sleepwell"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toPgx5URL(tt.in), tt.in)
	}
}
