// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the carpool to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// These settings may be versioned and maintained by sub-packages.
// However, the parsed and validated configurations should be passed
// to their ultimate components as a series of individual params (for
// the mandatory items) and a series of functional options (for
// the optional items), so they may be accumulated and validated
// in the relevant end-component such as a UseCase instance.
//
// Variables of a .env file in the working directory (if any) are
// loaded before the CARPOOL_* environment variables are consulted.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/momeni/carpool/pkg/adapter/config/cfg1"
	"github.com/momeni/carpool/pkg/adapter/config/settings"
	"github.com/momeni/carpool/pkg/adapter/config/vers"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/usecase/migrationuc"
)

// DefaultPath is used when neither the -c flag nor the CONFIG_FILE
// environment variable specify the configuration file path.
const DefaultPath = "configs/sample-config.yaml"

// Path returns the configuration file path, respectively taken from
// the given flag value, the CONFIG_FILE environment variable, or the
// DefaultPath.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p, found := os.LookupEnv("CONFIG_FILE"); found && p != "" {
		return p
	}
	return DefaultPath
}

// loadDotEnv loads the .env file without overriding the variables
// which are set already. A missing file is ignored.
func loadDotEnv(ctx context.Context) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn(ctx, "cannot load .env file", log.Err("error", err))
	}
}

// read loads the config file and checks its versions against the latest
// known configuration and database schema versions.
func read(ctx context.Context, path string) ([]byte, error) {
	loadDotEnv(ctx)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	vc := v.Versions
	switch {
	case vc.Config != cfg1.Version:
		return nil, fmt.Errorf(
			"unexpected config version: %s", vc.Config.String(),
		)
	case vc.Database != postgres.Version:
		return nil, fmt.Errorf(
			"unexpected database schema version: %s",
			vc.Database.String(),
		)
	}
	return data, nil
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known configuration settings format.
// The corresponding database schema version must also match with the
// latest known database schema version.
// Mutable settings which are stored in the database are not consulted.
func Load(ctx context.Context, path string) (*cfg1.Config, error) {
	data, err := read(ctx, path)
	if err != nil {
		return nil, err
	}
	c, err := cfg1.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}

// LoadFromDB is similar to Load, but also overrides the mutable
// settings by their values in the database. Failure to read them from
// the database is logged and the configuration file values are kept.
func LoadFromDB(ctx context.Context, path string) (*cfg1.Config, error) {
	data, err := read(ctx, path)
	if err != nil {
		return nil, err
	}
	c, ok, err := cfg1.LoadFromDB(ctx, data)
	switch {
	case !ok:
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	case err != nil:
		log.Warn(
			ctx, "using config file settings",
			log.Err("error", err),
		)
	}
	return c, nil
}

// LoadSettings loads the configuration file, similar to Load, and
// adapts it as a migrationuc.Settings, so it may be passed to the
// database initialization use cases.
func LoadSettings(
	ctx context.Context, path string,
) (migrationuc.Settings, error) {
	c, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return settings.Adapter[*cfg1.Config, cfg1.Serializable]{Config: c}, nil
}
