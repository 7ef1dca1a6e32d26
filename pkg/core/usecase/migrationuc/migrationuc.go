// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database initialization use case.
// It exposes InitDBUseCase for initializing of database schema and
// roles with initial data (for development or production environment).
// This package also exposes the Settings and SchemaSettings interfaces
// which represent the version-independent expectations from any
// configuration file representation type, so configuration types may
// be taken uniformly in the use cases layer.
package migrationuc
