// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stlmig1 provides Settler type for database schema major
// version 1. It initializes an empty carpoolN schema by creating the
// version 1 tables and filling them with development or production
// suitable data. It also persists the serialized mutable settings.
package stlmig1

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/carpool/pkg/core/auth"
	"github.com/momeni/carpool/pkg/core/repo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// These constants indicate the major, minor, and patch components of
// the database schema which is created by this package. Each major
// version has a separate stlmigN package and the Minor is the latest
// supported minor version within the Major major version series.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Component is the settings table key of the carpool settings row.
const Component = "carpool"

// Settler struct creates the major version 1 tables and fills them
// with the development or production suitable initial data. Check the
// InitDevSchema and InitProdSchema methods for this purpose.
//
// Each instance of Settler wraps and uses a single transaction of the
// destination database, but the caller is responsible to commit that
// transaction in order to finalize the initialization results.
type Settler struct {
	tx     repo.Tx             // destination database transaction
	hasher auth.PasswordHasher // hashes the sample users passwords
}

// gormer is implemented by the postgres transactions. It is asserted
// dynamically because the postgres package depends on this package for
// its version constants.
type gormer interface {
	GORM(ctx context.Context) *gorm.DB
}

// New creates a new Settler instance, wrapping the given `tx` database
// transaction. The settler object expects the database schema to exist
// and only tries to create relevant tables in that schema.
// The `h` hasher is only used by InitDevSchema and may be nil if
// sample users are not going to be created.
func New(tx repo.Tx, h auth.PasswordHasher) *Settler {
	return &Settler{
		tx:     tx,
		hasher: h,
	}
}

func (sm1 *Settler) gormDB(ctx context.Context) (*gorm.DB, error) {
	g, ok := sm1.tx.(gormer)
	if !ok {
		return nil, fmt.Errorf("unsupported transaction type: %T", sm1.tx)
	}
	return g.GORM(ctx), nil
}

// InitDevSchema creates major version 1 tables in carpool1 schema and
// fills them with the reference data, sample users, and sample trips.
func (sm1 *Settler) InitDevSchema(ctx context.Context) error {
	if sm1.hasher == nil {
		return errors.New("a password hasher is required for dev data")
	}
	if err := sm1.InitProdSchema(ctx); err != nil {
		return err
	}
	gdb, err := sm1.gormDB(ctx)
	if err != nil {
		return err
	}
	if err := sm1.insertUsers(gdb); err != nil {
		return fmt.Errorf("inserting sample users: %w", err)
	}
	if err := insertTrips(gdb); err != nil {
		return fmt.Errorf("inserting sample trips: %w", err)
	}
	return nil
}

// InitProdSchema creates major version 1 tables in carpool1 schema and
// fills them with the Tunisian cities and the trip options.
func (sm1 *Settler) InitProdSchema(ctx context.Context) error {
	if err := sm1.createTables(ctx); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	gdb, err := sm1.gormDB(ctx)
	if err != nil {
		return err
	}
	if err := gdb.Table("cities").Create(cityRows()).Error; err != nil {
		return fmt.Errorf("inserting cities: %w", err)
	}
	if err := gdb.Table("options").Create(optionRows()).Error; err != nil {
		return fmt.Errorf("inserting options: %w", err)
	}
	return nil
}

type gSettings struct {
	Component string `gorm:"primaryKey"`
	Config    datatypes.JSON
}

func (gs *gSettings) TableName() string {
	return "settings"
}

// PersistSettings stores the ms serialized mutable settings in the
// settings table, replacing the existing carpool row if any.
func (sm1 *Settler) PersistSettings(ctx context.Context, ms []byte) error {
	gdb, err := sm1.gormDB(ctx)
	if err != nil {
		return err
	}
	gs := &gSettings{
		Component: Component,
		Config:    datatypes.JSON(ms),
	}
	err = gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "component"}},
		DoUpdates: clause.AssignmentColumns([]string{"config"}),
	}).Create(gs).Error
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}

// MajorVersion returns the major semantic version of this Settler
// instance. This value matches with the Major constant which is defined
// in this package. Indeed, this method can be called with a nil
// instance too because it only depends on the Settler type (not its
// instance).
func (sm1 *Settler) MajorVersion() uint {
	return Major
}
