// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic interface which should be
// implemented by each configuration settings major version type.
// This package also provides a generic Adapter type which can adapt
// version specific cfgN.Config structs into version-independent
// migrationuc.Settings interface, so they can be passed to the
// use cases layer.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/migrationuc"
	"gopkg.in/yaml.v3"
)

// Config of C and S describes the expected interface of Config structs.
// It contains the database-related settings by embedding SchemaSettings
// interface, controls how the Config should be serialized to YAML using
// the Marshaler interface, and exposes the mutable settings in the S
// serializable format, so they may be stored in and loaded from the
// database.
// All pkg/adapter/config/cfgN.Config structs must implement this
// interface. Asserting it in their test files ensures that a copied
// cfgN package gets a compilation error until its types are updated.
//
// The S is the concrete serializable type which can be used for holding
// of the mutable settings. The C can produce a *S instance to be
// encoded as json and stored in the database. In reverse direction,
// stored mutable settings can be read from the database, decoded as
// a *S instance, and passed to C as a S instance in order to mutate
// the C fields (a non-pointer is used to simulate a const variable).
type Config[C, S any] interface {
	migrationuc.SchemaSettings
	yaml.Marshaler

	// Clone creates a deep copy of this configuration instance, so
	// its fields can be changed without updating this instance.
	Clone() C

	// Version returns the semantic version of this Config[C, S] struct
	// contents.
	Version() model.SemVer

	// MajorVersion returns the major semantic version of this
	// Config[C, S] struct. It only depends on the C type and so can be
	// called with a nil instance of the C type too.
	MajorVersion() uint

	// Mutate updates this Config[C, S] instance using the given S
	// instance which provides the mutable settings values.
	// A BoundsError is returned if some settings were adjusted in
	// order to respect their boundary values.
	Mutate(s S) error

	// Serializable creates and returns an instance of *S in order to
	// report the mutable settings, based on this Config[C, S] instance.
	Serializable() *S

	// Bounds reports the minimum and maximum boundary values of the
	// settings as two *S instances.
	Bounds() (minb, maxb *S)
}

// BoundsError is implemented by errors which report that some settings
// were out of their acceptable range and were replaced by the nearest
// boundary value.
type BoundsError interface {
	error
	IsBoundsError()
}

// Adapter of C and S is a generic struct which wraps and adapts an
// instance of Config[C, S] for S serializable settings type and any C
// type which exposes the Config[C, S] interface in order to
// provide the pkg/core/usecase/migrationuc.Settings interface.
type Adapter[C Config[C, S], S any] struct {
	Config[C, S]
}

// Clone creates a deep copy of this Adapter[C, S] instance by first
// cloning `a.Config` and then wrapping it in a new instance of
// Adapter[C, S] struct.
func (a Adapter[C, S]) Clone() migrationuc.Settings {
	c := a.Config.Clone()
	return Adapter[C, S]{c}
}

// Serialize finds out about the mutable settings of its embedded Config
// instance using the Serializable method, then tries to serialize it
// as a json string.
// Any returned error belongs to the json serialization phase.
// This serialization decouples the configuration settings format from
// the database schema format versions.
func (a Adapter[C, S]) Serialize() ([]byte, error) {
	s := a.Config.Serializable()
	return json.Marshal(s)
}

// LoadFromDB connects to the database, using the connection information
// from the `c` configuration argument and repo.NormalRole role, queries
// the database assuming that it has the c.SchemaVersion() version
// in order to obtain the serialized mutable settings (which must follow
// the same version is used by `c`). LoadFromDB also deserializes the
// queried settings in order to obtain an instance of S type and
// updated the `c` argument in place using its Mutate method.
// Errors will be returned by proper wrapping.
// Stored settings which violate their boundary values are adjusted
// and logged as a warning.
func LoadFromDB[C, S any](ctx context.Context, c Config[C, S]) error {
	dbVer := c.SchemaVersion()
	ms, err := queryMutableSettings(ctx, c, dbVer)
	if err != nil {
		return fmt.Errorf(
			"querying mutable settings (dbVer=%s): %w", dbVer, err,
		)
	}
	mutableSettings := new(S)
	if err := json.Unmarshal(ms, mutableSettings); err != nil {
		return fmt.Errorf("decoding mutable settings: %w", err)
	}
	err = c.Mutate(*mutableSettings)
	var be BoundsError
	switch {
	case errors.As(err, &be):
		log.Warn(
			ctx, "stored settings are adjusted by boundary values",
			log.Err("violation", be),
		)
	case err != nil:
		return fmt.Errorf("mutating settings: %w", err)
	}
	return nil
}

func queryMutableSettings[C, S any](
	ctx context.Context, c Config[C, S], dbVer model.SemVer,
) (mutableSettings []byte, err error) {
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		mutableSettings, err = migration.LoadSettings(ctx, conn, dbVer)
		if err != nil {
			return fmt.Errorf("migration.LoadSettings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connection: %w", err)
	}
	return mutableSettings, nil
}
