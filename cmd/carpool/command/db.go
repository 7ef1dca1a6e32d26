// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/carpool/pkg/adapter/config"
	"github.com/momeni/carpool/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used.`,
}

const credsRenewalMessage = `
The admin and normal database roles are (re)created and their passwords
are renewed. New passwords are written in the pass-dir directory which
is specified in the config file, replacing the previous passwords.`

const schemaMessage = `
If database schema version X.Y.Z is asked in the config file, while the
latest known minor and patch versions in the X schema major version are
equal to Y' and Z' respectively, relevant tables of version X.Y'.Z' will
be created in the carpoolX schema (without updating the config file).
The carpoolX schema is dropped and created again if it exists.`

func newInitDB(ctx context.Context) (*migrationuc.InitDBUseCase, error) {
	ss, err := config.LoadSettings(ctx, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadSettings(%q): %w", cfgPath, err)
	}
	return migrationuc.NewInitDB(ss), nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
