// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"

	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	"gopkg.in/yaml.v3"
)

// SchemaSettings represents the database-related settings which should
// be provided by a configuration file. It allows a database connection
// pool to be established for an asked role using the ConnectionPool
// method, reports the database schema version which is required for
// querying the stored tables, may be used for changing passwords of a
// set of database roles and storing new passwords in relevant files
// (with the atomic updating considerations), or as a factory for
// repo.SchemaInitializer (in order to initialize an empty database with
// development or production suitable data).
type SchemaSettings interface {
	// ConnectionPool creates a database connection pool using the
	// connection information which are kept in this SchemaSettings
	// instance. The `r` argument specifies the role name for the
	// created connection pool.
	//
	// Password values are kept in files in a specific password dir
	// and creation of a connection pool depends on identification of
	// a valid password for the given role and the database host, port,
	// and name which are taken from this SchemaSettings instance.
	// Each non-empty and non-commented line of the passwords file
	// should conform with this format:
	//
	//	host:port:dbname:role:password
	//
	// For sake of atomic passwords updating operations (during a DB
	// initialization), a second temporary passwords file may be created
	// in order to hold the new values of passwords. Therefore, even in
	// case of a failed migration operation, either old or new passwords
	// from the main or temporary passwords file may be used to connect
	// to the database. If such a temporary passwords file was used for
	// establishment of a connection pool, it will be moved to the main
	// passwords file before returning (so the temporary file may be
	// overwritten safely by the subsequent migration operations).
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// ConnectionInfo returns the database name, host, and port of the
	// connection information which are kept in this SchemaSettings
	// instance. The ConnectionPool method can be used to employ these
	// information and connect to a database.
	ConnectionInfo() (dbName, host string, port int)

	// NewSchemaRepo instantiates a fresh Schema repository.
	// Role names may be optionally suffixed based on the settings and
	// in that case, repo.Role role names which are passed to the
	// ConnectionPool method or RenewPasswords will be suffixed
	// automatically. Since the Schema repository has methods for
	// creation of roles or asking to grant specific privileges to
	// them, it needs to obtain the same role name suffix (as stored
	// in the current SchemaSettings instance).
	NewSchemaRepo() repo.Schema

	// SettingsPersister instantiates a repo.SettingsPersister for the
	// database schema version (see SchemaVersion method), wrapping the
	// given `tx` transaction argument.
	// Caller needs to serialize the mutable settings independently
	// (based on the settings format version) and then employ this
	// persister object for its storage in the database (see the
	// Serialize method of the Settings interface).
	SettingsPersister(tx repo.Tx) (repo.SettingsPersister, error)

	// SchemaInitializer creates a repo.SchemaInitializer instance
	// which wraps the given transaction argument and can be used to
	// initialize the database with development or production suitable
	// data. The format of the created tables and their initial data
	// rows are chosen based on the database schema version, as
	// indicated by SchemaVersion method. All table creation and data
	// insertion operations will be performed in the given transaction
	// and will be persisted only if the `tx` could commit successfully.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords generates new secure passwords for the given roles
	// and after recording them in a temporary file, will use the change
	// function in order to update the passwords of those roles in the
	// database too. The change function argument should perform the
	// update operation in a transaction which may or may not be
	// committed when RenewPasswords returns. In case of a successful
	// commitment, the temporary passwords file should be moved over
	// the main passwords file, as known in the current SchemaSettings
	// instance (so it may be used for the future calls to the
	// ConnectionPool method). This final file movement can be performed
	// using the returned finalizer function.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)

	// SchemaVersion returns the semantic version of the database schema
	// which its connection information are kept by this SchemaSettings.
	SchemaVersion() model.SemVer
}

// Settings interface represents the expectations of the database
// initialization use cases from the configuration files contents.
// Each Config struct version has to be adapted in order to provide
// this interface before being passed to these use cases, so they can
// be managed uniformly in the use cases layer.
type Settings interface {
	// Marshaler interface customizes the YAML serialization of a
	// configuration file contents, so it can replace specific settings
	// such as a slices of numbers in a vers.Config with alternative
	// data types and have control on the final serialization result.
	//
	// See the Marshal function of any Config struct for the reification
	// details and how marshaling logic can be distributed among nested
	// Config structs.
	yaml.Marshaler

	// SchemaSettings represents the database-related parts of Settings.
	SchemaSettings

	// Clone creates a deep copy of this Settings instance.
	Clone() Settings

	// Serialize finds out about the mutable settings of this Settings
	// instance and tries to serialize them as a json string, returning
	// the resulting byte slice and any possible error. Returned error
	// (if any) belongs to the json serialization phase.
	// This method helps to decouple the configuration settings format
	// versions from the database schema format versions.
	Serialize() (ms []byte, err error)

	// Version returns the semantic version of this Settings format.
	Version() model.SemVer
}
