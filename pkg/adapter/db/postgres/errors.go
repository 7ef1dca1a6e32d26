// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/carpool/pkg/core/cerr"
	"gorm.io/gorm"
)

// SQLSTATE codes which are translated to the cerr categories.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
)

// Constraint returns the violated constraint name and SQLSTATE code
// of err if it wraps a *pgconn.PgError. Otherwise, ok is false.
func Constraint(err error) (name, code string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.ConstraintName, pgErr.Code, true
}

// TranslateError maps the integrity violations of err to cerr errors.
// Unique and check violations become conflicts, foreign key violations
// become not-found errors, and gorm.ErrRecordNotFound becomes a
// not-found error too. Other errors are returned unchanged, so they
// can be reported as internal failures.
func TranslateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cerr.NotFound(fmt.Errorf("%s not found", what))
	}
	name, code, ok := Constraint(err)
	if !ok {
		return err
	}
	switch code {
	case UniqueViolation:
		return cerr.Conflict(fmt.Errorf(
			"%s already exists (%s)", what, name,
		))
	case CheckViolation:
		return cerr.Conflict(fmt.Errorf(
			"%s violates the %s constraint", what, name,
		))
	case ForeignKeyViolation:
		return cerr.NotFound(fmt.Errorf(
			"%s refers to a missing row (%s)", what, name,
		))
	}
	return err
}

// IsNotFound reports if err indicates that no row was found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
