// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/sleepwell/internal/platform/database/schema"
	"github.com/taibuivan/sleepwell/internal/platform/dberr"
	"github.com/taibuivan/sleepwell/pkg/uuidv7"
)

// # Repository Implementation

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new Postgres implementation of the user directory.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	selectUserByEmail = fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		schema.Users.SelectList(), schema.Users.Table, schema.Users.EmailAddress,
	)

	selectUserByID = fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		schema.Users.SelectList(), schema.Users.Table, schema.Users.ID,
	)

	insertUser = fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s, %s`,
		schema.Users.Table, schema.Users.ID, schema.Users.EmailAddress,
		schema.Users.CreatedAt, schema.Users.UpdatedAt,
	)

	updateUser = fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.Users.Table,
		schema.Users.FirstName, schema.Users.LastName, schema.Users.Gender, schema.Users.Age,
		schema.Users.Weight, schema.Users.Height, schema.Users.WakeUpTime, schema.Users.BedTime,
		schema.Users.UpdatedAt,
		schema.Users.ID,
		schema.Users.UpdatedAt,
	)
)

/*
FindByEmail retrieves a user by email address.

Description: The address is normalized before the lookup, matching what
[PostgresUserRepository.Create] stored.
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(ctx, selectUserByEmail, NormalizeEmail(email)))
	if err != nil {
		return nil, dberr.Wrap(err, "user_find_by_email")
	}
	return user, nil
}

// FindByID retrieves a user by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(ctx, selectUserByID, id))
	if err != nil {
		return nil, dberr.Wrap(err, "user_find_by_id")
	}
	return user, nil
}

/*
Create inserts the identity part of a user (ID and email).

Description: A time-ordered UUID v7 is assigned when the ID is unset. The
insert runs in its own implicit transaction and is committed on return.
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuidv7.New()
	}
	user.Email = NormalizeEmail(user.Email)

	err := repository.pool.QueryRow(ctx, insertUser, user.ID, user.Email).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "user_create")
	}

	return nil
}

// Update writes every profile field of user and refreshes updated_at.
func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	var gender *string
	if user.Gender != nil {
		value := string(*user.Gender)
		gender = &value
	}

	err := repository.pool.QueryRow(ctx, updateUser,
		user.ID,
		user.FirstName,
		user.LastName,
		gender,
		user.Age,
		user.Weight,
		user.Height,
		clockToPg(user.WakeUpTime),
		clockToPg(user.BedTime),
	).Scan(&user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "user_update")
	}

	return nil
}

// scanUser reads one row in [schema.UsersTable.Columns] order.
func scanUser(row pgx.Row) (*User, error) {
	var (
		user       User
		gender     pgtype.Text
		wakeUpTime pgtype.Time
		bedTime    pgtype.Time
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&gender,
		&user.Age,
		&user.Weight,
		&user.Height,
		&wakeUpTime,
		&bedTime,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gender.Valid {
		value := Gender(gender.String)
		user.Gender = &value
	}
	user.WakeUpTime = clockFromPg(wakeUpTime)
	user.BedTime = clockFromPg(bedTime)

	return &user, nil
}
