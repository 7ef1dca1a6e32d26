// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration is the top-level database schema package which
// acts as a facade for all supported database schema versions.
//
// The NewInitializer and LatestVersion functions can be used to find
// out the latest supported minor version for each major version and
// create its schema initializer object, while LoadSettings reads back
// the mutable settings which were persisted by a settler.
// This package depends on its sub-packages and returns the relevant
// types as version-independent interfaces.
package migration

import (
	"context"
	"fmt"

	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/sch1v0"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carpool/pkg/core/auth"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// LatestVersion returns the latest supported database schema version
// within the major version of the given `v` semantic version.
// If the minor version of `v` argument is beyond the supported database
// schema versions, an error will be returned.
//
// This function is useful for finding the database schema version
// which is going to be created by the InitDB use case.
func LatestVersion(v model.SemVer) (lv model.SemVer, err error) {
	switch major := v[0]; major {
	case 1:
		if minor := v[1]; minor > stlmig1.Minor {
			err = fmt.Errorf("unsupported minor: %d", minor)
			return
		}
		lv = model.SemVer{1, stlmig1.Minor, stlmig1.Patch}

	default:
		err = fmt.Errorf("unsupported major: %d", major)
	}
	return
}

// NewInitializer creates a database schema initializer instance for the
// given `v` semantic version. A repo.SchemaInitializer can be used for
// filling an existing database schema with the development or
// production suitable initial data. Since new tables and columns may
// be introduced by each minor version (within a major version), but
// they may not be removed or renamed, the older codes (which may query
// fewer tables/columns of an older schema) may connect to and query a
// schema with newer minor version too (ignoring the extra tables and
// columns). Therefore, the major version of the given `v` semantic
// version is examined and an instance of its corresponding database
// schema settler is created. Each schema settler is implemented in its
// separate package, namely stlmigN (for the N major version) and is
// able to create tables and fill them with initial data for the N major
// version and its latest supported minor version.
//
// If the minor version of `v` argument is beyond the supported versions
// of stlmigN package, an error will be returned because that package
// may create tables which are consumable by its own minor version and
// older minor versions, while newer minor versions expect to see more
// tables or columns which are not going to be created.
//
// The returned instance wraps the `tx` transaction argument and
// uses it for creation and initialization of tables. The `h` hasher
// is used for the sample users passwords of the development data.
// The caller remains responsible to commit that transaction.
func NewInitializer(
	tx repo.Tx, v model.SemVer, h auth.PasswordHasher,
) (repo.SchemaInitializer, error) {
	switch major := v[0]; major {
	case 1:
		if minor := v[1]; minor > stlmig1.Minor {
			return nil, fmt.Errorf("unsupported minor: %d", minor)
		}
		return stlmig1.New(tx, h), nil
	default:
		return nil, fmt.Errorf("unsupported major: %d", major)
	}
}

// LoadSettings loads the serialized mutable settings from the database
// using the given `c` connection, assuming that the database schema
// version is equal with the given `v` argument. Loading depends on
// both of the major and minor versions, unlike the settlement
// phase.
func LoadSettings(ctx context.Context, c repo.Conn, v model.SemVer) (
	[]byte, error,
) {
	switch major := v[0]; major {
	case 1:
		switch minor := v[1]; minor {
		case sch1v0.Minor:
			return sch1v0.LoadSettings(ctx, c)
		default:
			return nil, fmt.Errorf("unsupported minor: %d", minor)
		}
	default:
		return nil, fmt.Errorf("unsupported major: %d", major)
	}
}

// NewSettingsPersister instantiates a repo.SettingsPersister which
// wraps the given `tx` transaction and supports storage of a serialized
// version of mutable settings in the database.
//
// For the underlying implementation, see stlmigN packages which depend
// on the schema major version alone.
func NewSettingsPersister(tx repo.Tx, v model.SemVer) (
	repo.SettingsPersister, error,
) {
	switch major := v[0]; major {
	case 1:
		if minor := v[1]; minor > stlmig1.Minor {
			return nil, fmt.Errorf("unsupported minor: %d", minor)
		}
		return stlmig1.New(tx, nil), nil
	default:
		return nil, fmt.Errorf("unsupported major: %d", major)
	}
}
