// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SettingsPersister interface specifies that how mutable settings may
// be persisted in a database, after being serialized as a byte slice.
// Each instance of this interface shall embed the relevant database
// transaction instance, so the persistence applies whenever that
// transaction is committed by the caller.
type SettingsPersister interface {
	// PersistSettings stores the mutableSettings byte slice as the
	// serialized form of the system mutable configuration settings,
	// replacing the previously stored value (if any).
	PersistSettings(ctx context.Context, mutableSettings []byte) error
}

// SchemaInitializer interface is exposed by each schema version
// implementation. It provides two methods of InitDevSchema and
// InitProdSchema in order to create new tables and fill an existing
// schema with them, using the development and production suitable
// initial data rows respectively. The destination database transaction
// is known since the SchemaInitializer instantiation time.
type SchemaInitializer interface {
	SettingsPersister

	// InitDevSchema creates tables and fills them with the reference
	// data (cities and options) and a set of sample users and trips.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates tables and fills them with the reference
	// data alone.
	InitProdSchema(ctx context.Context) error
}

// Schema interface presents expectations from a repository which allows
// database schema and roles management. This repository creates schema
// and grant relevant privileges on them, so they may be filled by
// tables during the initialization or queried during other use cases.
type Schema interface {
	Conn(Conn) SchemaConnQueryer
	Tx(Tx) SchemaTxQueryer
}

// SchemaConnQueryer lists the schema operations which may be taken
// with an open connection and auto-committed transactions.
type SchemaConnQueryer interface {
	SchemaQueryer
}

// SchemaTxQueryer lists the schema operations which must be taken in
// an ongoing transaction.
type SchemaTxQueryer interface {
	SchemaQueryer

	// ChangePasswords updates the passwords of the given roles
	// in the current transaction. The roles and passwords slices must
	// have the same number of entries, so they can be used in pair.
	// The given roles may be suffixed automatically too, based on
	// this transaction queryer settings.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}

// SchemaQueryer interface lists common operations which may be taken
// with regards to database schema having either a connection or open
// transaction at hand.
type SchemaQueryer interface {
	// DropIfExists drops the `schema` schema without cascading if it
	// exists. If `schema` exists and is not empty, an error will be
	// returned.
	//
	// Caller is responsible to pass a trusted schema name string.
	DropIfExists(ctx context.Context, schema string) error

	// DropCascade drops `schema` schema with cascading, dropping all
	// dependent objects recursively. The `schema` must exist.
	//
	// Caller is responsible to pass a trusted schema name string.
	DropCascade(ctx context.Context, schema string) error

	// CreateSchema tries to create the `schema` schema.
	//
	// Caller is responsible to pass a trusted schema name string.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates the `role` role with the login
	// option if it does not exist right now. No password is set.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants ALL privileges on the `schema` schema
	// to the `role` role.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath alters the given database role and sets its default
	// search_path to the given schema name alone.
	SetSearchPath(ctx context.Context, schema string, role Role) error
}
