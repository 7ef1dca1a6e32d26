package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data.
In addition to the production reference data, sample driver, passenger,
and admin users and a few sample trips and bookings are created.
All sample users share the same development password.
` + credsRenewalMessage + "\n" + schemaMessage,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initDev(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	muc, err := newInitDB(ctx)
	if err != nil {
		return err
	}
	if err = muc.InitDev(ctx); err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initDevCmd)
}
